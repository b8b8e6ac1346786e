package goal

import (
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

// Rollover marks yesterday's pending day as failed on every visible goal and
// returns the indices of the goals it changed. Only yesterday is examined, so
// days missed while the app was closed longer than that stay pending.
func Rollover(goals []Goal, today util.Date) []int {
	yesterday := today.AddDays(-1)

	var changed []int
	for i := range goals {
		if goals[i].Hidden {
			continue
		}
		idx := goals[i].dayIndex(yesterday)
		if idx < 0 || goals[i].Days[idx].Status != DayStatusPending {
			continue
		}
		goals[i].Days[idx].Status = DayStatusFailed
		changed = append(changed, i)
	}
	return changed
}

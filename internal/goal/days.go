package goal

import (
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

// ExpandDays returns one pending day per calendar date in [start, end].
// A start after end yields no days; callers validate the range first.
func ExpandDays(start, end util.Date) []Day {
	if start.After(end) {
		return []Day{}
	}

	days := make([]Day, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, Day{
			Date:   d,
			Status: DayStatusPending,
		})
	}
	return days
}

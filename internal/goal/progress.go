package goal

import (
	"math"

	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type Stats struct {
	Progress
	Streak    int `json:"streak"`
	Remaining int `json:"remaining"`
}

func CalculateProgress(days []Day) Progress {
	p := Progress{Total: len(days)}
	for _, d := range days {
		if d.Status == DayStatusCompleted {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) * 100 / float64(p.Total)))
	}
	return p
}

// CalculateStreak walks back from the latest day. Future days are ignored,
// as is today while it is still pending. Skipped days neither count nor break
// the chain; the first other pending or failed day ends it.
func CalculateStreak(days []Day, today util.Date) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Date.After(today) {
			continue
		}
		if d.Status == DayStatusPending && d.Date.Equal(today) {
			continue
		}
		switch d.Status {
		case DayStatusCompleted:
			streak++
		case DayStatusSkipped:
			continue
		default:
			return streak
		}
	}
	return streak
}

func CalculateStats(g Goal, today util.Date) Stats {
	p := CalculateProgress(g.Days)
	return Stats{
		Progress:  p,
		Streak:    CalculateStreak(g.Days, today),
		Remaining: p.Total - p.Completed,
	}
}

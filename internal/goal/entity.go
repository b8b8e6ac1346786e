package goal

import (
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

type Day struct {
	Date        util.Date `json:"date"`
	Status      DayStatus `json:"status"`
	Description string    `json:"description"`
}

type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   util.Date `json:"startDate"`
	EndDate     util.Date `json:"endDate"`
	Color       string    `json:"color"`
	Hidden      bool      `json:"hidden"`
	Days        []Day     `json:"days"`
}

// Clone returns a copy that shares no day storage with g.
func (g Goal) Clone() Goal {
	if g.Days != nil {
		days := make([]Day, len(g.Days))
		copy(days, g.Days)
		g.Days = days
	}
	return g
}

func (g *Goal) dayIndex(date util.Date) int {
	for i := range g.Days {
		if g.Days[i].Date.Equal(date) {
			return i
		}
	}
	return -1
}

func cloneAll(goals []Goal) []Goal {
	out := make([]Goal, len(goals))
	for i := range goals {
		out[i] = goals[i].Clone()
	}
	return out
}

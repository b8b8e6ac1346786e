package goal

type DayStatus string

const (
	DayStatusPending   DayStatus = "pending"
	DayStatusCompleted DayStatus = "completed"
	DayStatusSkipped   DayStatus = "skipped"
	DayStatusFailed    DayStatus = "failed"
)

var AllDayStatuses = []DayStatus{
	DayStatusPending,
	DayStatusCompleted,
	DayStatusSkipped,
	DayStatusFailed,
}

func (s DayStatus) IsValid() bool {
	for _, v := range AllDayStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsMarkable reports whether a user may move a pending day to s.
// Failed is written only by the daily rollover.
func (s DayStatus) IsMarkable() bool {
	return s == DayStatusCompleted || s == DayStatusSkipped
}

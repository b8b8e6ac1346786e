package goal

import (
	"errors"
	"fmt"
)

var (
	ErrGoalNotFound         = errors.New("goal not found")
	ErrDayNotFound          = errors.New("day not found in goal")
	ErrConfirmationRequired = errors.New("changing the date range discards all tracked days and must be confirmed")
	ErrInvalidStatus        = errors.New("status must be completed or skipped")
	ErrTitleRequired        = errors.New("title is required")
	ErrDatesRequired        = errors.New("start date and end date are required")
	ErrInvalidRange         = errors.New("start date cannot be after end date")
	ErrNoActiveStore        = errors.New("no active goal store for this session")
	ErrPersistence          = errors.New("goal change was not persisted")
)

// PersistError reports a backend write that failed after the in-memory
// collection had already changed.
type PersistError struct {
	Op      Op
	GoalID  string
	Backend string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s of goal %s via %s: %v", e.Op, e.GoalID, e.Backend, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func (e *PersistError) Is(target error) bool {
	return target == ErrPersistence
}

// IsValidation reports whether err comes from rejected user input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrDatesRequired) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidStatus)
}

package goal

import (
	"strings"

	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

type CreateGoalDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   util.Date `json:"startDate"`
	EndDate     util.Date `json:"endDate"`
	Color       string    `json:"color"`
}

type UpdateGoalDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *util.Date `json:"startDate"`
	EndDate     *util.Date `json:"endDate"`
	Color       *string    `json:"color"`
	Confirm     bool       `json:"confirm"`
}

type MarkDayDTO struct {
	Status      DayStatus `json:"status"`
	Description string    `json:"description"`
}

type MutationResponse struct {
	Goal      *Goal `json:"goal,omitempty"`
	Changed   bool  `json:"changed"`
	Persisted bool  `json:"persisted"`
}

type GoalSummary struct {
	Goal
	Stats Stats `json:"stats"`
}

// Draft is a validated request to create a goal.
type Draft struct {
	Title       string
	Description string
	StartDate   util.Date
	EndDate     util.Date
	Color       string
}

// Patch carries the fields to change on an existing goal. Confirm must be set
// when the date range changes.
type Patch struct {
	Title       *string
	Description *string
	StartDate   *util.Date
	EndDate     *util.Date
	Color       *string
	Confirm     bool
}

func (dto CreateGoalDTO) ToDraft() (Draft, error) {
	d := Draft{
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Color:       dto.Color,
	}
	return d, d.Validate()
}

func (d Draft) Validate() error {
	return validate(d.Title, d.StartDate, d.EndDate)
}

func (dto UpdateGoalDTO) ToPatch() Patch {
	p := Patch{
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		Color:     dto.Color,
		Confirm:   dto.Confirm,
	}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		p.Title = &title
	}
	if dto.Description != nil {
		desc := strings.TrimSpace(*dto.Description)
		p.Description = &desc
	}
	return p
}

func validate(title string, start, end util.Date) error {
	if title == "" {
		return ErrTitleRequired
	}
	if start.IsZero() || end.IsZero() {
		return ErrDatesRequired
	}
	if start.After(end) {
		return ErrInvalidRange
	}
	return nil
}

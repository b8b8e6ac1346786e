package settings

import "errors"

var ErrInvalidTheme = errors.New("theme must be light or dark")

type UpdateSettingsDTO struct {
	DailyDescription *bool   `json:"dailyDescription"`
	Theme            *string `json:"theme"`
	Notifications    *bool   `json:"notifications"`
}

// Apply merges the non-nil fields of dto into s.
func (dto UpdateSettingsDTO) Apply(s Settings) (Settings, error) {
	if dto.DailyDescription != nil {
		s.DailyDescription = *dto.DailyDescription
	}
	if dto.Theme != nil {
		switch *dto.Theme {
		case "light", "dark":
			s.Theme = *dto.Theme
		default:
			return s, ErrInvalidTheme
		}
	}
	if dto.Notifications != nil {
		s.Notifications = *dto.Notifications
	}
	return s, nil
}

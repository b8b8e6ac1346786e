package settings

import "context"

// Settings are per-user preferences, one instance per session.
type Settings struct {
	DailyDescription bool   `json:"dailyDescription"`
	Theme            string `json:"theme"`
	Notifications    bool   `json:"notifications"`
}

func Default() Settings {
	return Settings{
		DailyDescription: true,
		Theme:            "light",
		Notifications:    false,
	}
}

// Store persists the settings of the active session.
type Store interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

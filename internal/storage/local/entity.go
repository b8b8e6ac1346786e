package local

import "time"

const (
	KeyGoals          = "goals"
	KeySettings       = "settings"
	KeyHasSeenWelcome = "hasSeenWelcome"
	KeyOfflineMode    = "offlineMode"
	KeyAuthToken      = "authToken"
)

// Entry is one key of the on-device key-value store. Values are JSON text,
// except authToken which is sealed with config.Encrypt.
type Entry struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "local_entries"
}

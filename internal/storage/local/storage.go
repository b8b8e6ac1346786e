package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
	"gorm.io/gorm"
)

const BackendName = "local"

// Storage is the device-local store. It backs goals and settings when nobody
// is signed in or the user chose offline mode, and keeps the session flags.
type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

func (s *Storage) Name() string {
	return BackendName
}

// LoadGoals returns the stored collection, or nil when none was ever saved.
func (s *Storage) LoadGoals(ctx context.Context) ([]goal.Goal, error) {
	var goals []goal.Goal
	found, err := s.getJSON(ctx, KeyGoals, &goals)
	if err != nil || !found {
		return nil, err
	}
	return goals, nil
}

// Apply rewrites the whole collection from the change snapshot.
func (s *Storage) Apply(ctx context.Context, change goal.Change) error {
	return s.SaveGoals(ctx, change.Snapshot)
}

func (s *Storage) SaveGoals(ctx context.Context, goals []goal.Goal) error {
	if goals == nil {
		goals = []goal.Goal{}
	}
	return s.putJSON(ctx, KeyGoals, goals)
}

func (s *Storage) LoadSettings(ctx context.Context) (settings.Settings, error) {
	st := settings.Default()
	if _, err := s.getJSON(ctx, KeySettings, &st); err != nil {
		return settings.Default(), err
	}
	return st, nil
}

func (s *Storage) SaveSettings(ctx context.Context, st settings.Settings) error {
	return s.putJSON(ctx, KeySettings, st)
}

func (s *Storage) HasSeenWelcome(ctx context.Context) (bool, error) {
	return s.getFlag(ctx, KeyHasSeenWelcome)
}

func (s *Storage) SetHasSeenWelcome(ctx context.Context, seen bool) error {
	return s.putJSON(ctx, KeyHasSeenWelcome, seen)
}

func (s *Storage) OfflineMode(ctx context.Context) (bool, error) {
	return s.getFlag(ctx, KeyOfflineMode)
}

func (s *Storage) SetOfflineMode(ctx context.Context, offline bool) error {
	return s.putJSON(ctx, KeyOfflineMode, offline)
}

func (s *Storage) LoadAuthToken(ctx context.Context) (string, error) {
	sealed, found, err := s.get(ctx, KeyAuthToken)
	if err != nil || !found {
		return "", err
	}
	token, err := config.Decrypt(sealed)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", KeyAuthToken, err)
	}
	return token, nil
}

func (s *Storage) SaveAuthToken(ctx context.Context, token string) error {
	sealed, err := config.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", KeyAuthToken, err)
	}
	return s.put(ctx, KeyAuthToken, sealed)
}

func (s *Storage) ClearAuthToken(ctx context.Context) error {
	return s.db.WithContext(ctx).Delete(&Entry{}, "key = ?", KeyAuthToken).Error
}

func (s *Storage) getFlag(ctx context.Context, key string) (bool, error) {
	var v bool
	_, err := s.getJSON(ctx, key, &v)
	return v, err
}

func (s *Storage) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, found, err := s.get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Storage) putJSON(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.put(ctx, key, string(b))
}

func (s *Storage) get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	if err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *Storage) put(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Save(&Entry{Key: key, Value: value}).Error
}

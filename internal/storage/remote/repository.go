package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateUserDocument(ctx context.Context, userID uuid.UUID, email string, s settings.Settings) error
	GetSettings(ctx context.Context, userID uuid.UUID) (settings.Settings, error)
	SaveSettings(ctx context.Context, userID uuid.UUID, s settings.Settings) error

	ListGoals(ctx context.Context, userID uuid.UUID) ([]goal.Goal, error)
	PutGoal(ctx context.Context, userID uuid.UUID, g goal.Goal) error
	MergeGoal(ctx context.Context, userID uuid.UUID, g goal.Goal) error
	DeleteGoal(ctx context.Context, userID uuid.UUID, goalID string) error

	SaveToken(ctx context.Context, userID uuid.UUID, token, platform string) error
	TokensOfNotifiedUsers(ctx context.Context) ([]TokenDocument, error)
	DeleteToken(ctx context.Context, token string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserDocument{}, &GoalDocument{}, &TokenDocument{})
}

func (r *repository) CreateUserDocument(ctx context.Context, userID uuid.UUID, email string, s settings.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	doc := UserDocument{UserID: userID, Email: email, Settings: datatypes.JSON(data)}
	return r.db.WithContext(ctx).Create(&doc).Error
}

// GetSettings returns the defaults when the user has no settings document.
func (r *repository) GetSettings(ctx context.Context, userID uuid.UUID) (settings.Settings, error) {
	var doc UserDocument
	if err := r.db.WithContext(ctx).First(&doc, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settings.Default(), nil
		}
		return settings.Default(), err
	}

	s := settings.Default()
	if err := json.Unmarshal(doc.Settings, &s); err != nil {
		return settings.Default(), fmt.Errorf("decode settings of %s: %w", userID, err)
	}
	return s, nil
}

func (r *repository) SaveSettings(ctx context.Context, userID uuid.UUID, s settings.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc UserDocument
		err := tx.First(&doc, "user_id = ?", userID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = UserDocument{UserID: userID, Settings: datatypes.JSON(data)}
			return tx.Create(&doc).Error
		case err != nil:
			return err
		}

		merged, err := mergeTopLevel(doc.Settings, data)
		if err != nil {
			return err
		}
		return tx.Model(&doc).Update("settings", merged).Error
	})
}

func (r *repository) ListGoals(ctx context.Context, userID uuid.UUID) ([]goal.Goal, error) {
	var docs []GoalDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, goal_id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	goals := make([]goal.Goal, 0, len(docs))
	for _, doc := range docs {
		var g goal.Goal
		if err := json.Unmarshal(doc.Data, &g); err != nil {
			return nil, fmt.Errorf("decode goal %s: %w", doc.GoalID, err)
		}
		g.ID = doc.GoalID
		goals = append(goals, g)
	}
	return goals, nil
}

// PutGoal writes the whole document, replacing any document with the same id.
func (r *repository) PutGoal(ctx context.Context, userID uuid.UUID, g goal.Goal) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	doc := GoalDocument{UserID: userID, GoalID: g.ID, Data: datatypes.JSON(data)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "goal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
}

// MergeGoal overlays the top-level fields of g onto the stored document,
// creating it when it is missing.
func (r *repository) MergeGoal(ctx context.Context, userID uuid.UUID, g goal.Goal) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc GoalDocument
		err := tx.First(&doc, "user_id = ? AND goal_id = ?", userID, g.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = GoalDocument{UserID: userID, GoalID: g.ID, Data: datatypes.JSON(data)}
			return tx.Create(&doc).Error
		case err != nil:
			return err
		}

		merged, err := mergeTopLevel(doc.Data, data)
		if err != nil {
			return err
		}
		return tx.Model(&doc).Update("data", merged).Error
	})
}

func (r *repository) DeleteGoal(ctx context.Context, userID uuid.UUID, goalID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND goal_id = ?", userID, goalID).
		Delete(&GoalDocument{}).Error
}

func (r *repository) SaveToken(ctx context.Context, userID uuid.UUID, token, platform string) error {
	doc := TokenDocument{UserID: userID, Token: token, Platform: platform}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "updated_at"}),
	}).Create(&doc).Error
}

func (r *repository) DeleteToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&TokenDocument{}).Error
}

// TokensOfNotifiedUsers lists the device tokens of every user whose
// notifications setting is on.
func (r *repository) TokensOfNotifiedUsers(ctx context.Context) ([]TokenDocument, error) {
	var users []UserDocument
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, u := range users {
		s := settings.Default()
		if err := json.Unmarshal(u.Settings, &s); err != nil {
			continue
		}
		if s.Notifications {
			ids = append(ids, u.UserID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var tokens []TokenDocument
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("user_id, token").
		Find(&tokens).Error
	return tokens, err
}

func mergeTopLevel(stored, patch []byte) (datatypes.JSON, error) {
	fields := map[string]json.RawMessage{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &fields); err != nil {
			return nil, fmt.Errorf("decode stored document: %w", err)
		}
	}

	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(merged), nil
}

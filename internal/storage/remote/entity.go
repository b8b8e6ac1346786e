package remote

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserDocument holds the per-user settings document.
type UserDocument struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email     string         `gorm:"not null"`
	Settings  datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserDocument) TableName() string {
	return "user_documents"
}

// GoalDocument is one goal of one user, stored as its JSON wire form.
type GoalDocument struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	GoalID    string         `gorm:"primaryKey"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GoalDocument) TableName() string {
	return "goal_documents"
}

// TokenDocument is a push notification device token registered by a user.
type TokenDocument struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"primaryKey"`
	Platform  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TokenDocument) TableName() string {
	return "token_documents"
}

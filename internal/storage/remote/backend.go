package remote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
)

const BackendName = "remote"

// UserBackend binds the document store to one signed-in user. It serves as
// both the goal backend and the settings store of an online session.
type UserBackend struct {
	repo   Repository
	userID uuid.UUID
}

func NewUserBackend(repo Repository, userID uuid.UUID) *UserBackend {
	return &UserBackend{repo: repo, userID: userID}
}

func (b *UserBackend) Name() string {
	return BackendName
}

func (b *UserBackend) UserID() uuid.UUID {
	return b.userID
}

func (b *UserBackend) LoadGoals(ctx context.Context) ([]goal.Goal, error) {
	return b.repo.ListGoals(ctx, b.userID)
}

func (b *UserBackend) Apply(ctx context.Context, change goal.Change) error {
	switch change.Op {
	case goal.OpCreate:
		return b.repo.PutGoal(ctx, b.userID, change.Goal)
	case goal.OpUpdate:
		return b.repo.MergeGoal(ctx, b.userID, change.Goal)
	case goal.OpDelete:
		return b.repo.DeleteGoal(ctx, b.userID, change.Goal.ID)
	default:
		return fmt.Errorf("unsupported goal op %q", change.Op)
	}
}

// ImportGoal writes a goal read from another backend under its own id,
// replacing a document with the same id.
func (b *UserBackend) ImportGoal(ctx context.Context, g goal.Goal) error {
	return b.repo.PutGoal(ctx, b.userID, g)
}

func (b *UserBackend) LoadSettings(ctx context.Context) (settings.Settings, error) {
	return b.repo.GetSettings(ctx, b.userID)
}

func (b *UserBackend) SaveSettings(ctx context.Context, s settings.Settings) error {
	return b.repo.SaveSettings(ctx, b.userID, s)
}

package goal

import "context"

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one mutation handed to a Backend. Snapshot holds the whole
// collection after the mutation, for backends that store goals as one blob.
type Change struct {
	Op       Op
	Goal     Goal
	Snapshot []Goal
}

type Backend interface {
	Name() string
	LoadGoals(ctx context.Context) ([]Goal, error)
	Apply(ctx context.Context, change Change) error
}

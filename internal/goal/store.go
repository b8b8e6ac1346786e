package goal

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/sirupsen/logrus"
)

// Result is what a mutation did. Goal is a copy of the goal after the call.
type Result struct {
	Goal    *Goal
	Changed bool
}

// Store is the in-memory goal collection of the current session. Every
// mutation is written through the configured Backend before it returns; a
// failed write leaves the in-memory change in place and returns a
// *PersistError.
type Store struct {
	mu      sync.Mutex
	goals   []Goal
	backend Backend
	newID   func() string
}

type StoreOption func(*Store)

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

func NewStore(backend Backend, goals []Goal, opts ...StoreOption) *Store {
	s := &Store{
		goals:   cloneAll(goals),
		backend: backend,
		newID:   newGoalID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newGoalID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) Backend() Backend {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals)
}

func (s *Store) List(includeHidden bool) []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Goal, 0, len(s.goals))
	for _, g := range s.goals {
		if g.Hidden && !includeHidden {
			continue
		}
		out = append(out, g.Clone())
	}
	return out
}

func (s *Store) Get(id string) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Goal{}, ErrGoalNotFound
	}
	return s.goals[idx].Clone(), nil
}

func (s *Store) Stats(id string, today util.Date) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Stats{}, ErrGoalNotFound
	}
	return CalculateStats(s.goals[idx], today), nil
}

func (s *Store) Add(ctx context.Context, d Draft) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := Goal{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Color:       d.Color,
		Days:        ExpandDays(d.StartDate, d.EndDate),
	}
	s.goals = append(s.goals, g)

	return s.commit(ctx, OpCreate, g)
}

func (s *Store) Update(ctx context.Context, id string, p Patch) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Result{}, ErrGoalNotFound
	}
	current := s.goals[idx]

	next := current.Clone()
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		next.EndDate = *p.EndDate
	}
	if p.Color != nil {
		next.Color = *p.Color
	}
	if err := validate(next.Title, next.StartDate, next.EndDate); err != nil {
		return Result{}, err
	}

	rangeChanged := !next.StartDate.Equal(current.StartDate) || !next.EndDate.Equal(current.EndDate)
	if rangeChanged {
		if !p.Confirm {
			return Result{}, ErrConfirmationRequired
		}
		next.Days = ExpandDays(next.StartDate, next.EndDate)
	}

	s.goals[idx] = next
	return s.commit(ctx, OpUpdate, next)
}

func (s *Store) Delete(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Result{}, ErrGoalNotFound
	}
	removed := s.goals[idx]
	s.goals = append(s.goals[:idx:idx], s.goals[idx+1:]...)

	return s.commit(ctx, OpDelete, removed)
}

func (s *Store) ToggleVisibility(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Result{}, ErrGoalNotFound
	}
	s.goals[idx].Hidden = !s.goals[idx].Hidden

	return s.commit(ctx, OpUpdate, s.goals[idx])
}

// MarkDay moves a pending day to status. A day that already left pending is
// left untouched and the result reports Changed == false.
func (s *Store) MarkDay(ctx context.Context, id string, date util.Date, status DayStatus, description string) (Result, error) {
	if !status.IsMarkable() {
		return Result{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Result{}, ErrGoalNotFound
	}
	g := &s.goals[idx]

	dayIdx := g.dayIndex(date)
	if dayIdx < 0 {
		return Result{}, ErrDayNotFound
	}
	if g.Days[dayIdx].Status != DayStatusPending {
		snapshot := g.Clone()
		return Result{Goal: &snapshot, Changed: false}, nil
	}

	g.Days[dayIdx].Status = status
	g.Days[dayIdx].Description = strings.TrimSpace(description)

	return s.commit(ctx, OpUpdate, *g)
}

// Rollover runs the daily failure marking over the collection and persists
// every goal it touched. It returns how many goals changed.
func (s *Store) Rollover(ctx context.Context, today util.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := Rollover(s.goals, today)

	var errs []error
	for _, idx := range changed {
		if _, err := s.commit(ctx, OpUpdate, s.goals[idx]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(changed) > 0 {
		config.WithContext(ctx).WithFields(logrus.Fields{
			"goals":   len(changed),
			"date":    today.AddDays(-1).String(),
			"backend": s.backend.Name(),
		}).Info("Rollover marked pending days as failed")
	}
	return len(changed), errors.Join(errs...)
}

// commit writes one change through the backend. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, op Op, g Goal) (Result, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"goal_id": g.ID,
		"op":      op,
		"backend": s.backend.Name(),
	})

	snapshot := g.Clone()
	res := Result{Goal: &snapshot, Changed: true}

	change := Change{
		Op:       op,
		Goal:     g.Clone(),
		Snapshot: cloneAll(s.goals),
	}
	if err := s.backend.Apply(ctx, change); err != nil {
		log.WithError(err).Warn("Goal change kept in memory but not persisted")
		return res, &PersistError{Op: op, GoalID: g.ID, Backend: s.backend.Name(), Err: err}
	}

	log.Debug("Goal change persisted")
	return res, nil
}

func (s *Store) index(id string) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

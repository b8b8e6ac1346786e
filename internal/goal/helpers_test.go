package goal_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saulo-duarte/chronos-goals/internal/goal"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

type fakeBackend struct {
	mu      sync.Mutex
	changes []goal.Change
	failOn  map[goal.Op]bool
	goals   []goal.Goal
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failOn: map[goal.Op]bool{}}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) LoadGoals(ctx context.Context) ([]goal.Goal, error) {
	return b.goals, nil
}

func (b *fakeBackend) Apply(ctx context.Context, change goal.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failOn[change.Op] {
		return errors.New("backend unavailable")
	}
	b.changes = append(b.changes, change)
	b.goals = change.Snapshot
	return nil
}

func (b *fakeBackend) last() goal.Change {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changes[len(b.changes)-1]
}

func sequentialIDs() goal.StoreOption {
	n := 0
	return goal.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("goal-%d", n)
	})
}

func date(s string) util.Date {
	return util.MustParseDate(s)
}

func draft(title, start, end string) goal.Draft {
	return goal.Draft{Title: title, StartDate: date(start), EndDate: date(end), Color: "#4caf50"}
}

func daysWith(start string, statuses ...goal.DayStatus) []goal.Day {
	d := date(start)
	days := make([]goal.Day, len(statuses))
	for i, s := range statuses {
		days[i] = goal.Day{Date: d.AddDays(i), Status: s}
	}
	return days
}

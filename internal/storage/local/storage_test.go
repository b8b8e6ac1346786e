package local_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/settings"
	"github.com/saulo-duarte/chronos-goals/internal/storage/local"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newStorage(t *testing.T) *local.Storage {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, local.Migrate(db))
	return local.New(db)
}

func sampleGoals() []goal.Goal {
	start := util.MustParseDate("2024-01-01")
	end := util.MustParseDate("2024-01-03")
	days := goal.ExpandDays(start, end)
	days[0].Status = goal.DayStatusCompleted
	days[0].Description = "first"
	days[1].Status = goal.DayStatusSkipped
	return []goal.Goal{
		{ID: "a", Title: "Run", StartDate: start, EndDate: end, Color: "#f44336", Days: days},
		{ID: "b", Title: "Read", Description: "books", StartDate: end, EndDate: end, Hidden: true, Days: goal.ExpandDays(end, end)},
	}
}

func TestGoalsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	empty, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	goals := sampleGoals()
	require.NoError(t, s.SaveGoals(ctx, goals))

	loaded, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, goals, loaded)

	require.NoError(t, s.SaveGoals(ctx, loaded))
	again, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestApplyWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)
	goals := sampleGoals()

	require.NoError(t, s.Apply(ctx, goal.Change{Op: goal.OpCreate, Goal: goals[0], Snapshot: goals}))
	require.NoError(t, s.Apply(ctx, goal.Change{Op: goal.OpDelete, Goal: goals[0], Snapshot: goals[1:]}))

	loaded, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)
	assert.Equal(t, "local", s.Name())
}

func TestStoreWithLocalBackend(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	store := goal.NewStore(s, nil)
	res, err := store.Add(ctx, goal.Draft{
		Title:     "Stretch",
		StartDate: util.MustParseDate("2024-01-01"),
		EndDate:   util.MustParseDate("2024-01-04"),
	})
	require.NoError(t, err)
	_, err = store.MarkDay(ctx, res.Goal.ID, util.MustParseDate("2024-01-02"), goal.DayStatusCompleted, "")
	require.NoError(t, err)

	loaded, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, goal.DayStatusCompleted, loaded[0].Days[1].Status)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	st, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Default(), st)

	st.Theme = "dark"
	st.Notifications = true
	require.NoError(t, s.SaveSettings(ctx, st))

	loaded, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
}

func TestFlags(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)

	seen, err := s.HasSeenWelcome(ctx)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.SetHasSeenWelcome(ctx, true))
	require.NoError(t, s.SetOfflineMode(ctx, true))

	seen, err = s.HasSeenWelcome(ctx)
	require.NoError(t, err)
	assert.True(t, seen)

	offline, err := s.OfflineMode(ctx)
	require.NoError(t, err)
	assert.True(t, offline)

	require.NoError(t, s.SetOfflineMode(ctx, false))
	offline, err = s.OfflineMode(ctx)
	require.NoError(t, err)
	assert.False(t, offline)
}

func TestAuthToken(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)
	require.NoError(t, config.InitCrypto("0123456789abcdef0123456789abcdef"))

	token, err := s.LoadAuthToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SaveAuthToken(ctx, "header.payload.signature"))
	token, err = s.LoadAuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "header.payload.signature", token)

	require.NoError(t, s.ClearAuthToken(ctx))
	token, err = s.LoadAuthToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

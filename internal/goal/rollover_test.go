package goal_test

import (
	"testing"

	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/stretchr/testify/assert"
)

func TestRollover(t *testing.T) {
	today := date("2024-01-03")

	goals := []goal.Goal{
		{ID: "visible", Days: daysWith("2024-01-01", P, P, P)},
		{ID: "hidden", Hidden: true, Days: daysWith("2024-01-01", P, P, P)},
		{ID: "done", Days: daysWith("2024-01-01", P, C, P)},
		{ID: "out-of-range", Days: daysWith("2024-01-05", P, P)},
	}

	changed := goal.Rollover(goals, today)

	assert.Equal(t, []int{0}, changed)
	assert.Equal(t, F, goals[0].Days[1].Status)
	assert.Equal(t, P, goals[0].Days[0].Status, "older days are never backfilled")
	assert.Equal(t, P, goals[0].Days[2].Status, "today is left alone")
	assert.Equal(t, P, goals[1].Days[1].Status, "hidden goals are exempt")
	assert.Equal(t, C, goals[2].Days[1].Status)
}

func TestRolloverIdempotent(t *testing.T) {
	today := date("2024-01-03")
	once := []goal.Goal{{ID: "a", Days: daysWith("2024-01-01", P, P, P)}}
	twice := []goal.Goal{{ID: "a", Days: daysWith("2024-01-01", P, P, P)}}

	goal.Rollover(once, today)
	goal.Rollover(twice, today)
	second := goal.Rollover(twice, today)

	assert.Empty(t, second)
	assert.Equal(t, once, twice)
}

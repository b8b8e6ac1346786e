package util_test

import (
	"encoding/json"
	"testing"
	"time"

	util "github.com/saulo-duarte/chronos-goals/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := util.ParseDate("2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", d.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := util.ParseDate("10/03/2024")
		assert.Error(t, err)
	})
}

func TestAddDaysAcrossDST(t *testing.T) {
	// 2024-03-10 is the US spring-forward day; 2024-11-03 falls back.
	cases := []struct {
		from string
		n    int
		want string
	}{
		{"2024-03-09", 1, "2024-03-10"},
		{"2024-03-10", 1, "2024-03-11"},
		{"2024-11-02", 2, "2024-11-04"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-01-01", -1, "2023-12-31"},
	}

	for _, tc := range cases {
		got := util.MustParseDate(tc.from).AddDays(tc.n)
		assert.Equal(t, tc.want, got.String(), "from %s by %d", tc.from, tc.n)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 03:00 UTC on Jan 2 is still Jan 1 in Bogota (UTC-5).
	instant := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", util.DateOf(instant, loc).String())
	assert.Equal(t, "2024-01-02", util.DateOf(instant, time.UTC).String())
}

func TestDaysUntil(t *testing.T) {
	start := util.MustParseDate("2024-03-01")
	end := util.MustParseDate("2024-04-01")
	assert.Equal(t, 31, start.DaysUntil(end))
	assert.Equal(t, -31, end.DaysUntil(start))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date util.Date `json:"date"`
	}

	b, err := json.Marshal(wrapper{Date: util.NewDate(2024, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-05"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-07-09"}`), &w))
	assert.Equal(t, "2024-07-09", w.Date.String())

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &w))
	assert.True(t, w.Date.IsZero())
}

func TestDateScan(t *testing.T) {
	var d util.Date
	require.NoError(t, d.Scan("2024-05-06"))
	assert.Equal(t, "2024-05-06", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-07", d.String())

	assert.Error(t, d.Scan(42))
}

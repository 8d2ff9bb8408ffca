package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyHabit(createdOn string) Habit {
	return Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 1},
		CreatedOn:  createdOn,
	}
}

func TestScoreNoDueDatesIsPerfect(t *testing.T) {
	// Window entirely before creation: vacuously perfect.
	got, err := Score(dailyHabit("2024-06-01"), nil, "2024-01-31", 30)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	// Empty day set: never due anywhere.
	h := Habit{ValueType: ValueBoolean, Recurrence: Recurrence{Kind: KindSpecificDays}, CreatedOn: "2024-01-01"}
	got, err = Score(h, doneLogs("2024-01-10"), "2024-01-31", 30)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestScoreAllMissedIsZero(t *testing.T) {
	got, err := Score(dailyHabit("2024-01-01"), nil, "2024-01-30", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestScoreAllCompletedIsHundred(t *testing.T) {
	h := dailyHabit("2024-01-01")
	var logs []Log
	date := "2024-01-01"
	for i := 0; i < 30; i++ {
		logs = append(logs, Log{Date: date, Done: true})
		next, err := AddDays(date, 1)
		require.NoError(t, err)
		date = next
	}

	got, err := Score(h, logs, "2024-01-30", 30)
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestScoreRecencyWeighting(t *testing.T) {
	// Five completions at the end of a 30-day window must outscore five
	// completions at its start, all else equal.
	h := dailyHabit("2024-01-01")
	today := "2024-01-30"

	recent := doneLogs("2024-01-26", "2024-01-27", "2024-01-28", "2024-01-29", "2024-01-30")
	stale := doneLogs("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")

	recentScore, err := Score(h, recent, today, 30)
	require.NoError(t, err)
	staleScore, err := Score(h, stale, today, 30)
	require.NoError(t, err)

	assert.Greater(t, recentScore, staleScore)
}

func TestScoreWeightMonotonicity(t *testing.T) {
	// For every pair of adjacent days in the window, completing only the
	// more recent one scores strictly higher.
	h := dailyHabit("2024-01-01")
	today := "2024-01-30"

	prev := -1
	date := "2024-01-01"
	for i := 0; i < 30; i++ {
		got, err := Score(h, doneLogs(date), today, 30)
		require.NoError(t, err)
		// Rounding to an integer percentage can plateau; the raw weight is
		// strictly increasing, so the score must never decrease.
		assert.GreaterOrEqual(t, got, prev, "score regressed at %s", date)
		prev = got
		next, err := AddDays(date, 1)
		require.NoError(t, err)
		date = next
	}

	first, err := Score(h, doneLogs("2024-01-01"), today, 30)
	require.NoError(t, err)
	last, err := Score(h, doneLogs("2024-01-30"), today, 30)
	require.NoError(t, err)
	assert.Greater(t, last, first)
}

func TestScoreWindowRestriction(t *testing.T) {
	// Completions outside the trailing window contribute nothing.
	h := dailyHabit("2024-01-01")
	logs := doneLogs("2024-01-01", "2024-01-02", "2024-01-03")

	got, err := Score(h, logs, "2024-03-01", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestScoreSparseDueDates(t *testing.T) {
	// Mondays-only: the window holds far fewer due dates than days.
	h := mondayHabit()
	logs := doneLogs("2024-01-22", "2024-01-29")

	// Window 2024-01-09..2024-02-07 contains Mondays 01-15, 01-22, 01-29, 02-05.
	got, err := Score(h, logs, "2024-02-07", 30)
	require.NoError(t, err)
	assert.Greater(t, got, 0)
	assert.Less(t, got, 100)
}

func TestScoreInvalidWindow(t *testing.T) {
	_, err := Score(dailyHabit("2024-01-01"), nil, "2024-01-30", 0)
	assert.Error(t, err)
}

func TestScoreLogOrderIndependence(t *testing.T) {
	h := dailyHabit("2024-01-01")
	a, err := Score(h, doneLogs("2024-01-28", "2024-01-29", "2024-01-30"), "2024-01-30", 30)
	require.NoError(t, err)
	b, err := Score(h, doneLogs("2024-01-30", "2024-01-28", "2024-01-29"), "2024-01-30", 30)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

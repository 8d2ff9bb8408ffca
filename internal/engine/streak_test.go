package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doneLogs(dates ...string) []Log {
	logs := make([]Log, 0, len(dates))
	for _, d := range dates {
		logs = append(logs, Log{Date: d, Done: true})
	}
	return logs
}

func mondayHabit() Habit {
	return Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays, Days: []int{1}},
		CreatedOn:  "2024-01-01", // a Monday
	}
}

func TestStreakEmptyLogs(t *testing.T) {
	for _, rec := range []Recurrence{
		{Kind: KindSpecificDays, Days: []int{1}},
		{Kind: KindWeeklyTarget, TimesPerWeek: 3},
		{Kind: KindEveryNDays, Interval: 2},
	} {
		h := Habit{ValueType: ValueBoolean, Recurrence: rec, CreatedOn: "2024-01-01"}
		got, err := Streak(h, nil, "2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, 0, got.Current, "kind %s", rec.Kind)
	}
}

func TestStreakCountsDueDatesNotCalendarDays(t *testing.T) {
	// Four consecutive completed Mondays are a streak of 4 even though
	// 21 non-due days pass in between.
	h := mondayHabit()
	logs := doneLogs("2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22")

	got, err := Streak(h, logs, "2024-01-22")
	require.NoError(t, err)
	assert.Equal(t, StreakResult{Current: 4, Best: 4}, got)
}

func TestStreakMissedDueDateResets(t *testing.T) {
	// Completed 01-01 and 01-08, missed 01-15, completed 01-22 and 01-29.
	h := mondayHabit()
	logs := doneLogs("2024-01-01", "2024-01-08", "2024-01-22", "2024-01-29")

	got, err := Streak(h, logs, "2024-01-29")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Current, "a single missed Monday resets the run")
	assert.Equal(t, 2, got.Best)
}

func TestStreakDueTodayNotLoggedIsZero(t *testing.T) {
	// Strict reading: today is due and unlogged, so the current streak
	// reflects committed completions only.
	h := mondayHabit()
	logs := doneLogs("2024-01-15", "2024-01-22")

	got, err := Streak(h, logs, "2024-01-29")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Current)
	assert.Equal(t, 2, got.Best)
}

func TestStreakBestBeforeCurrent(t *testing.T) {
	// A long historical run followed by a shorter live one.
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 1},
		CreatedOn:  "2024-01-01",
	}
	logs := doneLogs(
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-09", "2024-01-10",
	)

	got, err := Streak(h, logs, "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Current)
	assert.Equal(t, 5, got.Best)
	assert.GreaterOrEqual(t, got.Best, got.Current)
}

func TestStreakNumericHabit(t *testing.T) {
	// Below-target logs break the run even though an entry exists.
	h := Habit{
		ValueType:  ValueNumeric,
		Target:     floatPtr(8),
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 1},
		CreatedOn:  "2024-01-01",
	}
	logs := []Log{
		{Date: "2024-01-01", Value: 9},
		{Date: "2024-01-02", Value: 5},
		{Date: "2024-01-03", Value: 8},
		{Date: "2024-01-04", Value: 12},
	}

	got, err := Streak(h, logs, "2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, StreakResult{Current: 2, Best: 2}, got)
}

func TestStreakNeverDue(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays}, // empty day set
		CreatedOn:  "2024-01-01",
	}
	got, err := Streak(h, doneLogs("2024-01-02"), "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, StreakResult{}, got)
}

func TestStreakHabitCreatedAfterToday(t *testing.T) {
	h := mondayHabit()
	h.CreatedOn = "2024-06-03"
	got, err := Streak(h, nil, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, StreakResult{}, got)
}

func TestStreakYearRollover(t *testing.T) {
	// Daily habit spanning 2023 -> 2024.
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 1},
		CreatedOn:  "2023-12-29",
	}
	logs := doneLogs("2023-12-29", "2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02")

	got, err := Streak(h, logs, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, StreakResult{Current: 5, Best: 5}, got)
}

func TestStreakLogOrderIndependence(t *testing.T) {
	h := mondayHabit()
	ordered := doneLogs("2024-01-01", "2024-01-08", "2024-01-15")
	shuffled := doneLogs("2024-01-15", "2024-01-01", "2024-01-08")

	a, err := Streak(h, ordered, "2024-01-15")
	require.NoError(t, err)
	b, err := Streak(h, shuffled, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStreakInvalidToday(t *testing.T) {
	_, err := Streak(mondayHabit(), nil, "soon")
	assert.Error(t, err)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyProgressSpecificDays(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays, Days: []int{1, 2, 3, 4, 5}},
		CreatedOn:  "2024-01-01",
	}
	logs := doneLogs("2024-01-08", "2024-01-09", "2024-01-10")

	got, err := WeeklyProgress(h, logs, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, WeekProgress{Completed: 3, Target: 5}, got)
}

func TestWeeklyProgressWeeklyTarget(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 3},
		CreatedOn:  "2024-01-01",
	}
	// Two completions anywhere in the week count, weekday irrelevant.
	logs := doneLogs("2024-01-09", "2024-01-13")

	got, err := WeeklyProgress(h, logs, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, WeekProgress{Completed: 2, Target: 3}, got)
}

func TestWeeklyProgressEveryNDays(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 3},
		CreatedOn:  "2024-01-01",
	}
	// Week 2024-01-08..2024-01-14 holds day offsets 7..13; offsets 9 and
	// 12 land on the cadence, so the target is 2.
	logs := doneLogs("2024-01-10")

	got, err := WeeklyProgress(h, logs, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, WeekProgress{Completed: 1, Target: 2}, got)
}

func TestWeeklyProgressLoggedCompletionAlwaysCounts(t *testing.T) {
	// A completion logged on a non-due day still counts toward the week.
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays, Days: []int{1}},
		CreatedOn:  "2024-01-01",
	}
	logs := doneLogs("2024-01-08", "2024-01-10") // Monday and Wednesday

	got, err := WeeklyProgress(h, logs, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, WeekProgress{Completed: 2, Target: 1}, got)
}

func TestWeeklyProgressNumeric(t *testing.T) {
	h := Habit{
		ValueType:  ValueNumeric,
		Target:     floatPtr(8),
		Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 4},
		CreatedOn:  "2024-01-01",
	}
	logs := []Log{
		{Date: "2024-01-08", Value: 8},
		{Date: "2024-01-09", Value: 3}, // below target, not completed
		{Date: "2024-01-11", Value: 10},
	}

	got, err := WeeklyProgress(h, logs, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, WeekProgress{Completed: 2, Target: 4}, got)
}

func TestWeeklyProgressPartialWeekAtCreation(t *testing.T) {
	// Habit created mid-week: earlier days of the window are not due, so
	// the every-N target only counts in-range cadence dates.
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 2},
		CreatedOn:  "2024-01-10", // Wednesday
	}

	got, err := WeeklyProgress(h, nil, "2024-01-08")
	require.NoError(t, err)
	// Due dates inside 01-08..01-14: 01-10, 01-12, 01-14.
	assert.Equal(t, WeekProgress{Completed: 0, Target: 3}, got)
}

func TestWeeklyProgressInvalidWeekStart(t *testing.T) {
	_, err := WeeklyProgress(mondayHabit(), nil, "next monday")
	assert.Error(t, err)
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     Recurrence
		wantErr bool
	}{
		{"weekdays", Recurrence{Kind: KindSpecificDays, Days: []int{1, 2, 3, 4, 5}}, false},
		{"empty days is legal", Recurrence{Kind: KindSpecificDays}, false},
		{"day out of range", Recurrence{Kind: KindSpecificDays, Days: []int{7}}, true},
		{"negative day", Recurrence{Kind: KindSpecificDays, Days: []int{-1}}, true},
		{"weekly target", Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 3}, false},
		{"zero weekly target", Recurrence{Kind: KindWeeklyTarget}, false},
		{"negative weekly target", Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: -1}, true},
		{"every other day", Recurrence{Kind: KindEveryNDays, Interval: 2}, false},
		{"zero interval", Recurrence{Kind: KindEveryNDays}, true},
		{"unknown kind", Recurrence{Kind: "monthly"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsDueSpecificDays(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays, Days: []int{1}}, // Mondays
		CreatedOn:  "2024-01-01",
	}

	// Due on every Monday at or after creation, and on no other weekday.
	mondays := []string{"2024-01-01", "2024-01-08", "2024-02-26", "2024-12-30"}
	for _, d := range mondays {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.True(t, due, d)
	}
	for _, d := range []string{"2024-01-02", "2024-01-03", "2024-01-07", "2024-01-13"} {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.False(t, due, d)
	}
}

func TestIsDueEveryNDays(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 3},
		CreatedOn:  "2024-01-01",
	}

	for _, d := range []string{"2024-01-01", "2024-01-04", "2024-01-07", "2024-01-10"} {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.True(t, due, d)
	}
	for _, d := range []string{"2024-01-02", "2024-01-03", "2024-01-05", "2024-01-06"} {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.False(t, due, d)
	}

	// Creation day is always due.
	due, err := IsDue(h, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, due)

	// Cadence survives the leap day: 2024-03-01 is day 60.
	due, err = IsDue(h, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, due)
}

func TestIsDueWeeklyTarget(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 3},
		CreatedOn:  "2024-01-03",
	}

	// Every in-range date is a due-opportunity, independent of weekday.
	for _, d := range []string{"2024-01-03", "2024-01-04", "2024-01-07", "2024-06-15"} {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.True(t, due, d)
	}
}

func TestIsDueBeforeCreation(t *testing.T) {
	for _, rec := range []Recurrence{
		{Kind: KindSpecificDays, Days: []int{0, 1, 2, 3, 4, 5, 6}},
		{Kind: KindWeeklyTarget, TimesPerWeek: 7},
		{Kind: KindEveryNDays, Interval: 1},
	} {
		h := Habit{ValueType: ValueBoolean, Recurrence: rec, CreatedOn: "2024-01-10"}
		due, err := IsDue(h, "2024-01-09")
		require.NoError(t, err)
		assert.False(t, due, "kind %s must not be due before creation", rec.Kind)
	}
}

func TestIsDueEmptyDaySet(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindSpecificDays},
		CreatedOn:  "2024-01-01",
	}
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-07"} {
		due, err := IsDue(h, d)
		require.NoError(t, err)
		assert.False(t, due, "empty day set means never due")
	}
}

func TestIsDueInvalidDate(t *testing.T) {
	h := Habit{
		ValueType:  ValueBoolean,
		Recurrence: Recurrence{Kind: KindEveryNDays, Interval: 1},
		CreatedOn:  "2024-01-01",
	}
	_, err := IsDue(h, "2024-1-1")
	assert.Error(t, err, "malformed dates fail fast instead of reading as not due")
}

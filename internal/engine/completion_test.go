package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestIsCompletedBoolean(t *testing.T) {
	h := Habit{ValueType: ValueBoolean, Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 1}, CreatedOn: "2024-01-01"}

	assert.False(t, IsCompleted(h, nil), "absent log is never a completion")
	assert.False(t, IsCompleted(h, &Log{Date: "2024-01-01", Done: false}), "logged-as-not-done stays incomplete")
	assert.True(t, IsCompleted(h, &Log{Date: "2024-01-01", Done: true}))
}

func TestIsCompletedNumeric(t *testing.T) {
	h := Habit{
		ValueType:  ValueNumeric,
		Target:     floatPtr(8),
		Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 1},
		CreatedOn:  "2024-01-01",
	}

	assert.False(t, IsCompleted(h, nil))
	assert.False(t, IsCompleted(h, &Log{Date: "2024-01-01", Value: 5}))
	assert.True(t, IsCompleted(h, &Log{Date: "2024-01-01", Value: 8}), "meeting the target completes")
	assert.True(t, IsCompleted(h, &Log{Date: "2024-01-01", Value: 10}), "exceeding the target has no clamp")
}

func TestIsCompletedNumericDefaultTarget(t *testing.T) {
	h := Habit{ValueType: ValueNumeric, Recurrence: Recurrence{Kind: KindWeeklyTarget, TimesPerWeek: 1}, CreatedOn: "2024-01-01"}

	assert.True(t, IsCompleted(h, &Log{Date: "2024-01-01", Value: 1}), "missing target defaults to 1")
	assert.False(t, IsCompleted(h, &Log{Date: "2024-01-01", Value: 0.5}))
}

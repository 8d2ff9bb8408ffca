package habits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"daytrack/internal/engine"
	"daytrack/internal/model"
)

// Validation runs before any repo access, so a zero Service is enough here.

func dailyHabit(valueType string) *model.Habit {
	return &model.Habit{
		Title:     "Read",
		ValueType: valueType,
		Recurrence: engine.Recurrence{
			Kind: engine.KindSpecificDays,
			Days: []int{0, 1, 2, 3, 4, 5, 6},
		},
	}
}

func TestCreateHabitRejectsUnknownValueType(t *testing.T) {
	s := &Service{}

	err := s.CreateHabit(context.Background(), dailyHabit("percentage"))
	assert.ErrorIs(t, err, ErrInvalidValueType)
}

func TestUpdateHabitRejectsUnknownValueType(t *testing.T) {
	s := &Service{}

	h := dailyHabit("percentage")
	h.ID = 7
	err := s.UpdateHabit(context.Background(), 1, h)
	assert.ErrorIs(t, err, ErrInvalidValueType)
}

func TestUpdateHabitRejectsInvalidRecurrence(t *testing.T) {
	s := &Service{}

	h := dailyHabit(string(engine.ValueBoolean))
	h.Recurrence = engine.Recurrence{Kind: engine.KindEveryNDays, Interval: 0}
	err := s.UpdateHabit(context.Background(), 1, h)
	assert.ErrorIs(t, err, engine.ErrInvalidRecurrence)
}

func TestValidateDefinitionAcceptsBothValueTypes(t *testing.T) {
	for _, vt := range []string{string(engine.ValueBoolean), string(engine.ValueNumeric)} {
		assert.NoError(t, validateDefinition(dailyHabit(vt)), vt)
	}
}

package model

import (
	"time"

	"daytrack/internal/engine"
)

type Habit struct {
	ID         int64             `json:"id"`
	UserID     int               `json:"user_id"`
	Title      string            `json:"title"`
	Emoji      string            `json:"emoji"`
	Color      string            `json:"color"`
	ValueType  string            `json:"value_type"` // boolean / numeric
	Target     *float64          `json:"target,omitempty"`
	Recurrence engine.Recurrence `json:"recurrence"`
	CreatedOn  string            `json:"created_on"` // first date the habit can be due
	Archived   bool              `json:"archived"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// EngineHabit strips the record down to the slice the engine consumes.
func (h *Habit) EngineHabit() engine.Habit {
	return engine.Habit{
		ValueType:  engine.ValueType(h.ValueType),
		Target:     h.Target,
		Recurrence: h.Recurrence,
		CreatedOn:  h.CreatedOn,
	}
}

// HabitLog is one entry per habit per calendar date; (habit_id, log_date) is
// unique in storage. LogDate is the effective date, already rollover-adjusted
// at write time.
type HabitLog struct {
	ID       int64     `json:"id"`
	HabitID  int64     `json:"habit_id"`
	LogDate  string    `json:"log_date"`
	Done     bool      `json:"done"`
	Value    float64   `json:"value"`
	LoggedAt time.Time `json:"logged_at"`
}

func (l *HabitLog) EngineLog() engine.Log {
	return engine.Log{Date: l.LogDate, Done: l.Done, Value: l.Value}
}

// EngineLogs converts a full history for an engine call.
func EngineLogs(logs []HabitLog) []engine.Log {
	out := make([]engine.Log, 0, len(logs))
	for i := range logs {
		out = append(out, logs[i].EngineLog())
	}
	return out
}

// HabitStats is the derived, never-persisted stat bundle served to clients.
// The redis copy is a pure cache; every field re-derives from the habit and
// its logs.
type HabitStats struct {
	HabitID        int64               `json:"habit_id"`
	Today          string              `json:"today"`
	DueToday       bool                `json:"due_today"`
	CompletedToday bool                `json:"completed_today"`
	Streak         engine.StreakResult `json:"streak"`
	Score          int                 `json:"score"`
	Week           engine.WeekProgress `json:"week"`
	ComputedAt     time.Time           `json:"computed_at"`
}

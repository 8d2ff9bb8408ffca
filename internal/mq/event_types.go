// Package mq defines the payload contracts carried over the events
// exchange. Producers and consumers both import these so the wire shape
// lives in one place.
package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingKeyHabitLogUpdated = "habit.log.updated"
	RoutingKeyHabitUpdated    = "habit.updated"
	RoutingKeyTaskOverdue     = "task.overdue"
	RoutingKeyTaskCompleted   = "task.completed"
)

// HabitLogUpdatedPayload fires whenever a log is written or removed for a
// habit. Stats for that habit must be recomputed.
type HabitLogUpdatedPayload struct {
	HabitID int64  `json:"habit_id"`
	UserID  int    `json:"user_id"`
	LogDate string `json:"log_date"` // YYYY-MM-DD
	Deleted bool   `json:"deleted,omitempty"`
}

// HabitUpdatedPayload fires when a habit's schedule-affecting attributes
// change (recurrence, target, value type, archive state).
type HabitUpdatedPayload struct {
	HabitID int64 `json:"habit_id"`
	UserID  int   `json:"user_id"`
}

type TaskOverduePayload struct {
	TaskID  int64     `json:"task_id"`
	UserID  int       `json:"user_id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

type TaskCompletedPayload struct {
	TaskID      int64     `json:"task_id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completed_at"`
}

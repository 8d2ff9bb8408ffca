package model

import "time"

const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
	TaskStatusOverdue = "overdue"
)

type Task struct {
	ID          int64      `json:"id"`
	UserID      int        `json:"user_id"`
	CourseID    *int64     `json:"course_id,omitempty"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"` // pending / done / overdue
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

package model

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Type      string    `json:"type"` // task_overdue, ...
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

package model

import "time"

type Course struct {
	ID         int64     `json:"id"`
	UserID     int       `json:"user_id"`
	Title      string    `json:"title"`
	Code       string    `json:"code"`
	Instructor string    `json:"instructor"`
	Term       string    `json:"term"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

package model

import "time"

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSettings are the tracker-wide knobs the habit engine consumes as
// explicit parameters. Rows are created lazily; absent rows fall back to
// the configured defaults.
type UserSettings struct {
	UserID          int `json:"user_id"`
	RolloverHour    int `json:"rollover_hour"`
	WeekStartDay    int `json:"week_start_day"`
	ScoreWindowDays int `json:"score_window_days"`
}

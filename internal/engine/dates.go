package engine

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date grammar every evaluator accepts.
const DateLayout = "2006-01-02"

// Sentinel errors callers can match with errors.Is.
var (
	ErrInvalidDate       = errors.New("invalid calendar date")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// Defaults applied when a user has no stored settings.
const (
	DefaultRolloverHour    = 4
	DefaultWeekStartDay    = 1 // Monday
	DefaultScoreWindowDays = 30
)

// ParseDate parses a calendar-date string. A malformed date is a caller
// contract violation and always surfaces as an error, never as "not due".
func ParseDate(dateISO string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateISO)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, dateISO)
	}
	return t, nil
}

// EffectiveDate maps a wall-clock instant to the calendar date it belongs to
// under a configurable day-rollover hour. With rolloverHour=4 a log written
// at 02:30 still counts toward the previous day.
func EffectiveDate(ts time.Time, rolloverHour int) string {
	return ts.Add(-time.Duration(rolloverHour) * time.Hour).Format(DateLayout)
}

// DayOfWeek returns 0-6 with Sunday = 0.
func DayOfWeek(dateISO string) (int, error) {
	t, err := ParseDate(dateISO)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// DaysBetween returns the signed count of calendar days from a to b.
// Both dates parse to midnight UTC, so the division is exact and immune
// to daylight-saving artifacts.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// AddDays shifts a calendar date by n days (n may be negative).
func AddDays(dateISO string, n int) (string, error) {
	t, err := ParseDate(dateISO)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// StartOfWeek returns the most recent date on weekday weekStartDay that is
// on or before dateISO. weekStartDay uses the same Sunday=0 convention.
func StartOfWeek(dateISO string, weekStartDay int) (string, error) {
	if weekStartDay < 0 || weekStartDay > 6 {
		return "", fmt.Errorf("week start day out of range: %d", weekStartDay)
	}
	t, err := ParseDate(dateISO)
	if err != nil {
		return "", err
	}
	back := (int(t.Weekday()) - weekStartDay + 7) % 7
	return t.AddDate(0, 0, -back).Format(DateLayout), nil
}

package engine

import "fmt"

// RecurrenceKind enumerates the closed set of scheduling rules. Every
// downstream evaluator switches exhaustively over these three values; a new
// kind must be handled everywhere or IsDue rejects it.
type RecurrenceKind string

const (
	KindSpecificDays RecurrenceKind = "specific_days"
	KindWeeklyTarget RecurrenceKind = "weekly_target"
	KindEveryNDays   RecurrenceKind = "every_n_days"
)

// Recurrence is a tagged variant. Only the fields of the active kind are
// meaningful; the rest stay zero.
type Recurrence struct {
	Kind RecurrenceKind `json:"kind"`

	// specific_days: weekdays the habit is due, Sunday = 0.
	// An empty set is legal and means never due.
	Days []int `json:"days,omitempty"`

	// weekly_target: expected completion count per week.
	TimesPerWeek int `json:"times_per_week,omitempty"`

	// every_n_days: cadence measured from the habit's creation date.
	Interval int `json:"interval,omitempty"`
}

// Validate rejects rule configurations before they can reach the evaluators.
func (r Recurrence) Validate() error {
	switch r.Kind {
	case KindSpecificDays:
		for _, d := range r.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: day out of range: %d", ErrInvalidRecurrence, d)
			}
		}
		return nil
	case KindWeeklyTarget:
		if r.TimesPerWeek < 0 {
			return fmt.Errorf("%w: times per week must be >= 0, got %d", ErrInvalidRecurrence, r.TimesPerWeek)
		}
		return nil
	case KindEveryNDays:
		if r.Interval < 1 {
			return fmt.Errorf("%w: interval must be >= 1, got %d", ErrInvalidRecurrence, r.Interval)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecurrence, r.Kind)
	}
}

// IsDue decides whether the habit expects an entry on dateISO. Dates strictly
// before the habit's creation date are never due, regardless of variant.
// The check is O(1); it never scans logs.
func IsDue(h Habit, dateISO string) (bool, error) {
	d, err := DaysBetween(h.CreatedOn, dateISO)
	if err != nil {
		return false, err
	}
	if d < 0 {
		return false, nil
	}

	switch h.Recurrence.Kind {
	case KindSpecificDays:
		dow, err := DayOfWeek(dateISO)
		if err != nil {
			return false, err
		}
		for _, day := range h.Recurrence.Days {
			if day == dow {
				return true, nil
			}
		}
		return false, nil
	case KindWeeklyTarget:
		// The constraint is on count, not on which day: every in-range
		// date is a due-opportunity.
		return true, nil
	case KindEveryNDays:
		if h.Recurrence.Interval < 1 {
			return false, fmt.Errorf("interval must be >= 1, got %d", h.Recurrence.Interval)
		}
		return d%h.Recurrence.Interval == 0, nil
	default:
		return false, fmt.Errorf("unknown recurrence kind %q", h.Recurrence.Kind)
	}
}

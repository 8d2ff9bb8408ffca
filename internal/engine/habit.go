// Package engine derives habit adherence facts (due dates, completions,
// streaks, scores, weekly progress) from a habit definition and its raw log
// history. Every function is pure: no clocks, no I/O, no state between
// calls. Results are re-derived in full from the snapshot passed in; nothing
// here reads or writes a running counter.
package engine

// ValueType selects the completion semantics of a habit.
type ValueType string

const (
	ValueBoolean ValueType = "boolean"
	ValueNumeric ValueType = "numeric"
)

// Habit is the minimal slice of a habit record the engine consumes.
// Presentation fields (title, emoji, color) never reach this package.
type Habit struct {
	ValueType  ValueType
	Target     *float64 // numeric habits only; nil means 1
	Recurrence Recurrence
	CreatedOn  string // first date the habit can ever be due
}

// Log is one entry for one calendar date. The caller guarantees at most one
// log per (habit, date) pair; the engine assumes that invariant holds.
type Log struct {
	Date  string
	Done  bool
	Value float64
}

// StreakResult holds the derived streak pair. Best >= Current always.
type StreakResult struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// WeekProgress is completion count versus the periodic target within one
// week window.
type WeekProgress struct {
	Completed int `json:"completed"`
	Target    int `json:"target"`
}

func (h Habit) target() float64 {
	if h.Target == nil {
		return 1
	}
	return *h.Target
}

// indexLogs builds a date -> log lookup. Absence of a date in the map is the
// explicit "never logged" case, distinct from "logged as not done".
func indexLogs(logs []Log) map[string]Log {
	byDate := make(map[string]Log, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}
	return byDate
}

package engine

// IsCompleted decides whether a log entry satisfies the habit for its date.
// A nil log means no entry exists and is never a completion. Numeric habits
// complete at or above the target (default 1); exceeding it has no clamp.
func IsCompleted(h Habit, log *Log) bool {
	if log == nil {
		return false
	}
	switch h.ValueType {
	case ValueNumeric:
		return log.Value >= h.target()
	default:
		return log.Done
	}
}

// completedOn is the map-based form used by the scanning calculators.
func completedOn(h Habit, byDate map[string]Log, dateISO string) bool {
	l, ok := byDate[dateISO]
	if !ok {
		return false
	}
	return IsCompleted(h, &l)
}

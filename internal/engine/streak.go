package engine

// dueDatesBetween enumerates the habit's due dates from startISO through
// endISO inclusive, in chronological order. Non-due dates are not part of
// the streak axis at all: they neither extend nor break a run.
func dueDatesBetween(h Habit, startISO, endISO string) ([]string, error) {
	start, err := ParseDate(startISO)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endISO)
	if err != nil {
		return nil, err
	}

	var due []string
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		date := t.Format(DateLayout)
		ok, err := IsDue(h, date)
		if err != nil {
			return nil, err
		}
		if ok {
			due = append(due, date)
		}
	}
	return due, nil
}

// Streak derives the current and best-ever streaks over the habit's
// lifetime, counted in consecutive due dates rather than calendar days: a
// Mondays-only habit keeps its streak through the six non-due days in
// between, and a single missed Monday resets it.
//
// The current streak counts committed completions only. If today is due and
// not yet logged, current is 0.
func Streak(h Habit, logs []Log, todayISO string) (StreakResult, error) {
	if _, err := ParseDate(todayISO); err != nil {
		return StreakResult{}, err
	}
	d, err := DaysBetween(h.CreatedOn, todayISO)
	if err != nil {
		return StreakResult{}, err
	}
	if d < 0 {
		// Habit created in the future relative to today: no due axis yet.
		return StreakResult{}, nil
	}

	due, err := dueDatesBetween(h, h.CreatedOn, todayISO)
	if err != nil {
		return StreakResult{}, err
	}
	if len(due) == 0 {
		return StreakResult{}, nil
	}

	byDate := indexLogs(logs)

	current := 0
	for i := len(due) - 1; i >= 0; i-- {
		if !completedOn(h, byDate, due[i]) {
			break
		}
		current++
	}

	best := 0
	run := 0
	for _, date := range due {
		if completedOn(h, byDate, date) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}

	return StreakResult{Current: current, Best: best}, nil
}

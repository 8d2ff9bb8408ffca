package engine

// WeeklyProgress reports progress toward the habit's periodic target within
// the week [weekStartISO, weekStartISO+6].
//
// Completed counts satisfied logged dates inside the window regardless of
// whether each day was individually due: a logged completion always counts.
// The target depends on the recurrence variant: the number of configured
// weekdays, the declared times-per-week, or the number of due dates the
// cadence lands inside the window.
func WeeklyProgress(h Habit, logs []Log, weekStartISO string) (WeekProgress, error) {
	if _, err := ParseDate(weekStartISO); err != nil {
		return WeekProgress{}, err
	}

	byDate := indexLogs(logs)

	completed := 0
	date := weekStartISO
	for i := 0; i < 7; i++ {
		if completedOn(h, byDate, date) {
			completed++
		}
		next, err := AddDays(date, 1)
		if err != nil {
			return WeekProgress{}, err
		}
		date = next
	}

	target, err := weeklyTarget(h, weekStartISO)
	if err != nil {
		return WeekProgress{}, err
	}

	return WeekProgress{Completed: completed, Target: target}, nil
}

func weeklyTarget(h Habit, weekStartISO string) (int, error) {
	switch h.Recurrence.Kind {
	case KindSpecificDays:
		return len(h.Recurrence.Days), nil
	case KindWeeklyTarget:
		return h.Recurrence.TimesPerWeek, nil
	case KindEveryNDays:
		weekEndISO, err := AddDays(weekStartISO, 6)
		if err != nil {
			return 0, err
		}
		due, err := dueDatesBetween(h, weekStartISO, weekEndISO)
		if err != nil {
			return 0, err
		}
		return len(due), nil
	default:
		return 0, h.Recurrence.Validate()
	}
}

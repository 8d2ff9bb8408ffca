package engine

import (
	"fmt"
	"math"
)

// scoreDecayRate controls how fast a due date's weight falls off as it
// recedes into the window. weight(d) = exp(-rate * daysBeforeToday), so the
// weight is strictly increasing as the date approaches today. The rate is an
// implementation choice; the monotonicity is the contract.
const scoreDecayRate = 0.1

// Score computes the recency-weighted adherence percentage over the trailing
// window [today-windowDays+1, today].
//
// An empty due set inside the window scores exactly 100 (no opportunity to
// fail), and a non-empty due set with no completions scores exactly 0.
func Score(h Habit, logs []Log, todayISO string, windowDays int) (int, error) {
	if windowDays < 1 {
		return 0, fmt.Errorf("score window must be >= 1 day, got %d", windowDays)
	}
	startISO, err := AddDays(todayISO, -(windowDays - 1))
	if err != nil {
		return 0, err
	}

	due, err := dueDatesBetween(h, startISO, todayISO)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 100, nil
	}

	byDate := indexLogs(logs)

	var weightSum, completedSum float64
	for _, date := range due {
		daysBefore, err := DaysBetween(date, todayISO)
		if err != nil {
			return 0, err
		}
		w := math.Exp(-scoreDecayRate * float64(daysBefore))
		weightSum += w
		if completedOn(h, byDate, date) {
			completedSum += w
		}
	}

	return int(math.Round(100 * completedSum / weightSum)), nil
}

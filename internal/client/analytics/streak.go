package analytics

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

type Streak struct {
	Current int
	Longest int
}

// CalculateStreak walks entry dates from newest to oldest. Consecutive days
// extend a run. A two-day gap (one missed day) is forgiven only while the
// run still is the current one. The newest date starts the current run
// only when it is today or yesterday relative to today.
//
// Dates that do not parse are ignored; duplicates count once.
func CalculateStreak(dates []string, today time.Time) Streak {
	days := normaliseDates(dates)
	if len(days) == 0 {
		return Streak{}
	}

	var s Streak
	isCurrent := models.DaysBetween(days[0], today) <= 1
	run := 1

	for i := 1; i < len(days); i++ {
		gap := models.DaysBetween(days[i], days[i-1])
		if gap == 1 || (gap == 2 && isCurrent) {
			run++
			continue
		}
		if isCurrent {
			s.Current = run
			isCurrent = false
		}
		s.Longest = max(s.Longest, run)
		run = 1
	}

	if isCurrent {
		s.Current = run
	}
	s.Longest = max(s.Longest, run)

	return s
}

func normaliseDates(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		t, err := models.ParseDate(d)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

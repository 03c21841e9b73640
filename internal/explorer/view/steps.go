package view

import (
	"sort"
	"time"

	"github.com/mygymhq/adminboard/internal/explorer/document"
)

// StepperTotal is one user's summed steps over the loaded page.
type StepperTotal struct {
	UserID string
	Steps  float64
}

// TopSteppers sums steps per user and returns the heaviest n steppers,
// descending. Records without a resolvable user id are skipped; ties break
// on user id so the ranking is deterministic.
func TopSteppers(records []*document.Record, n int) []StepperTotal {
	totals := make(map[string]float64)
	for _, rec := range records {
		userID := rec.StringAt("userId")
		if userID == "" || userID == document.Missing {
			continue
		}
		if steps, ok := rec.NumberAt("steps"); ok {
			totals[userID] += steps
		}
	}

	ranked := make([]StepperTotal, 0, len(totals))
	for userID, steps := range totals {
		ranked = append(ranked, StepperTotal{UserID: userID, Steps: steps})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Steps != ranked[j].Steps {
			return ranked[i].Steps > ranked[j].Steps
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DayTotal is the summed steps of one calendar day (UTC).
type DayTotal struct {
	Day   time.Time
	Steps float64
}

// StepsPerDay buckets steps by calendar day for the steps chart, oldest
// day first. Records without a date are skipped.
func StepsPerDay(records []*document.Record) []DayTotal {
	totals := make(map[time.Time]float64)
	for _, rec := range records {
		day := rec.TimeAt("date")
		if day.IsZero() {
			continue
		}
		day = day.UTC().Truncate(24 * time.Hour)
		if steps, ok := rec.NumberAt("steps"); ok {
			totals[day] += steps
		}
	}

	days := make([]DayTotal, 0, len(totals))
	for day, steps := range totals {
		days = append(days, DayTotal{Day: day, Steps: steps})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
	return days
}

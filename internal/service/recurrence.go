package service

import (
	"time"

	appErrors "github.com/fieldwise/fsm-api/pkg/errors"
)

// ExpandOccurrences materializes a recurrence rule into concrete dates:
// every date in [rangeStart, recurrenceEnd ?? rangeEnd] whose weekday is in
// the set (0=Sunday..6=Saturday), ascending. Without an explicit recurrence
// end the template's own end date bounds the expansion, so the result is
// always finite.
func ExpandOccurrences(weekdays []int, rangeStart, rangeEnd time.Time, recurrenceEnd *time.Time) ([]time.Time, error) {
	if len(weekdays) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidRecurrence, "recurrence requires at least one weekday")
	}

	start := truncateToDay(rangeStart)
	end := truncateToDay(rangeEnd)
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRecurrence, "recurrence range start is after range end")
	}
	if recurrenceEnd != nil {
		end = truncateToDay(*recurrenceEnd)
	}

	wanted := make(map[time.Weekday]struct{}, len(weekdays))
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return nil, appErrors.Clone(appErrors.ErrInvalidRecurrence, "weekdays must be between 0 (Sunday) and 6 (Saturday)")
		}
		wanted[time.Weekday(d)] = struct{}{}
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := wanted[d.Weekday()]; ok {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

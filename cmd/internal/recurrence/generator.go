// Package recurrence computes the occurrences of a recurring appointment or
// task from its rule.
package recurrence

import (
	"bizbook/cmd/internal/domain/entity"
	"time"
)

// DefaultMaxCount is used when GenerateDates is called with maxCount <= 0.
const DefaultMaxCount = 10

// Settings is the generator's view of entity.RecurringSettings with the
// bounds already converted to time values.
type Settings struct {
	Frequency      entity.Frequency
	Interval       int
	DaysOfWeek     []int
	DayOfMonth     *int
	EndDate        *time.Time
	MaxOccurrences *int
}

// FromEntity converts stored settings, placing EndDate in loc.
func FromEntity(s *entity.RecurringSettings, loc *time.Location) Settings {
	out := Settings{
		Frequency:      s.Frequency,
		Interval:       s.Interval,
		DaysOfWeek:     s.DaysOfWeek,
		DayOfMonth:     s.DayOfMonth,
		MaxOccurrences: s.MaxOccurrences,
	}
	if s.EndDate != nil {
		end := time.UnixMilli(*s.EndDate).In(loc)
		out.EndDate = &end
	}
	return out
}

// GenerateDates returns anchor followed by the next occurrences of the rule,
// each stepped from the previous one, at most maxCount dates in total.
// Generation stops early once a date would fall after EndDate (that date is
// dropped) or once MaxOccurrences dates have been produced.
func GenerateDates(anchor time.Time, s Settings, maxCount int) []time.Time {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	interval := s.Interval
	if interval < 1 {
		interval = 1
	}

	dates := make([]time.Time, 1, maxCount)
	dates[0] = anchor

	prev := anchor
	for i := 1; i < maxCount; i++ {
		if s.MaxOccurrences != nil && i >= *s.MaxOccurrences {
			break
		}

		next := step(prev, s, interval)
		if s.EndDate != nil && next.After(*s.EndDate) {
			break
		}

		dates = append(dates, next)
		prev = next
	}
	return dates
}

func step(prev time.Time, s Settings, interval int) time.Time {
	switch s.Frequency {
	case entity.FrequencyWeekly:
		return prev.AddDate(0, 0, 7*interval)
	case entity.FrequencyMonthly:
		next := addMonths(prev, interval)
		if s.DayOfMonth != nil && *s.DayOfMonth > 0 {
			day := min(*s.DayOfMonth, daysIn(next.Year(), next.Month(), next.Location()))
			next = withDay(next, day)
		}
		return next
	case entity.FrequencyYearly:
		return addMonths(prev, 12*interval)
	default:
		return prev.AddDate(0, 0, interval)
	}
}

// addMonths moves t by n calendar months, clamping the day to the length
// of the target month instead of overflowing into the next one the way
// time.AddDate does (Jan 31 + 1 month is Feb 28, not Mar 3).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	day := min(t.Day(), daysIn(target.Year(), target.Month(), target.Location()))
	return withDay(target, day)
}

func withDay(t time.Time, day int) time.Time {
	return time.Date(t.Year(), t.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

package recurrence

import (
	"bizbook/cmd/internal/domain/entity"
	"time"

	"github.com/teambition/rrule-go"
)

// Rule is a recurrence in RFC 5545 terms: the RRULE options plus the RDATE
// and EXDATE values the options alone cannot express.
type Rule struct {
	rrule.ROption
	RDates  []time.Time
	ExDates []time.Time
}

// NewRule renders the settings as an RFC 5545 rule starting at anchor. A
// monthly day past 28 becomes BYMONTHDAY=28..d with BYSETPOS=-1, i.e. "day d,
// or the last day of shorter months", which is how GenerateDates clamps when
// DayOfMonth is set. Without DayOfMonth GenerateDates drifts to the clamped
// day (Jan 31, Feb 28, Mar 28) while the RRULE keeps the anchor day; the
// same holds for yearly rules anchored on Feb 29.
//
// When DayOfMonth does not fall on the anchor (anchor on the 15th, day 20)
// the RRULE cannot produce the anchor, so it is added as an RDATE, and the
// RRULE's own hit later in the anchor's month is cancelled with an EXDATE.
func NewRule(anchor time.Time, s Settings) Rule {
	interval := s.Interval
	if interval < 1 {
		interval = 1
	}

	r := Rule{ROption: rrule.ROption{
		Freq:     frequency(s.Frequency),
		Interval: interval,
		Dtstart:  anchor,
	}}
	if s.EndDate != nil {
		r.Until = *s.EndDate
	}
	if s.MaxOccurrences != nil && *s.MaxOccurrences > 0 {
		r.Count = *s.MaxOccurrences
	}

	if s.Frequency != entity.FrequencyMonthly {
		return r
	}

	day := anchor.Day()
	if s.DayOfMonth != nil && *s.DayOfMonth > 0 {
		day = min(*s.DayOfMonth, 31)
	}
	if day > 28 {
		for d := 28; d <= day; d++ {
			r.Bymonthday = append(r.Bymonthday, d)
		}
		r.Bysetpos = []int{-1}
	} else {
		r.Bymonthday = []int{day}
	}

	inMonth := withDay(anchor, min(day, daysIn(anchor.Year(), anchor.Month(), anchor.Location())))
	if inMonth.Equal(anchor) {
		return r
	}

	r.RDates = []time.Time{anchor}
	skipped := 0
	if inMonth.After(anchor) {
		r.ExDates = []time.Time{inMonth}
		skipped = 1
	}
	// COUNT counts RRULE hits only, the excluded one included.
	if r.Count > 0 {
		r.Count += skipped - 1
		if r.Count == 0 {
			// COUNT=0 means unbounded; end the RRULE before it starts.
			r.Until = anchor
		}
	}
	return r
}

// Set compiles the rule into an rrule.Set.
func (r Rule) Set() (*rrule.Set, error) {
	rr, err := rrule.NewRRule(r.ROption)
	if err != nil {
		return nil, err
	}

	set := &rrule.Set{}
	set.RRule(rr)
	for _, d := range r.RDates {
		set.RDate(d)
	}
	for _, d := range r.ExDates {
		set.ExDate(d)
	}
	return set, nil
}

func frequency(f entity.Frequency) rrule.Frequency {
	switch f {
	case entity.FrequencyWeekly:
		return rrule.WEEKLY
	case entity.FrequencyMonthly:
		return rrule.MONTHLY
	case entity.FrequencyYearly:
		return rrule.YEARLY
	default:
		return rrule.DAILY
	}
}

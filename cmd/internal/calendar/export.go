// Package calendar renders appointments as an iCalendar feed.
package calendar

import (
	"bizbook/cmd/internal/domain/entity"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//bizbook//appointments//EN"

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Status      entity.AppointmentStatus
	Created     time.Time
	Modified    time.Time
	// RRule is the RRULE value without the "RRULE:" prefix, empty for
	// one-off events.
	RRule   string
	RDates  []time.Time
	ExDates []time.Time
}

// Render serializes events into a VCALENDAR stamped with now.
func Render(events []Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		ve := cal.AddEvent(ev.UID)
		ve.SetDtStampTime(now)
		ve.SetCreatedTime(ev.Created)
		ve.SetModifiedAt(ev.Modified)
		if ev.AllDay {
			ve.SetAllDayStartAt(ev.Start)
			ve.SetAllDayEndAt(ev.End)
		} else {
			ve.SetStartAt(ev.Start)
			ve.SetEndAt(ev.End)
		}
		ve.SetSummary(ev.Summary)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		ve.SetStatus(status(ev.Status))
		if ev.RRule != "" {
			ve.SetProperty(ical.ComponentPropertyRrule, ev.RRule)
		}
		for _, d := range ev.RDates {
			ve.AddRdate(dateValue(d, ev.AllDay))
		}
		for _, d := range ev.ExDates {
			ve.AddExdate(dateValue(d, ev.AllDay))
		}
	}
	return cal.Serialize()
}

func dateValue(t time.Time, allDay bool) (string, ical.PropertyParameter) {
	if allDay {
		return t.Format("20060102"), ical.WithValue(string(ical.ValueDataTypeDate))
	}
	return t.UTC().Format("20060102T150405Z"), ical.WithValue(string(ical.ValueDataTypeDateTime))
}

// Drafts have no iCalendar counterpart and are published as tentative.
func status(s entity.AppointmentStatus) ical.ObjectStatus {
	switch s {
	case entity.StatusConfirmed:
		return ical.ObjectStatusConfirmed
	case entity.StatusCancelled:
		return ical.ObjectStatusCancelled
	case entity.StatusCompleted:
		return ical.ObjectStatusCompleted
	default:
		return ical.ObjectStatusTentative
	}
}

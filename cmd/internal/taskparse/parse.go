// Package taskparse turns a free-text request such as
// "remind me to call Anna tomorrow at 3pm" into a task.
package taskparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type ParsedTask struct {
	Title    string     `json:"title"`
	Due      *time.Time `json:"due,omitempty"`
	AllDay   bool       `json:"all_day"`
	Location string     `json:"location,omitempty"`
	Priority Priority   `json:"priority"`
}

type state struct {
	now   time.Time
	task  ParsedTask
	day   *time.Time
	hour  int
	min   int
	timed bool
}

type rule struct {
	name string
	re   *regexp.Regexp
	// apply consumes a match; returning false leaves the text untouched.
	apply func(m []string, st *state) bool
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// intents must match the whole input; the first group is the task body.
var intents = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^remind me to\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:add|create|new) (?:a )?task(?: to)?:?\s+(.+)$`),
	regexp.MustCompile(`(?i)^(?:todo|task):\s*(.+)$`),
	regexp.MustCompile(`(?i)^i need to\s+(.+)$`),
}

// rules run in order over the body; every consumed match is cut out of it
// and whatever is left becomes the title.
var rules = []rule{
	{
		name: "priority",
		re:   regexp.MustCompile(`(?i)\b(urgent|asap|high priority|low priority)\b`),
		apply: func(m []string, st *state) bool {
			if strings.EqualFold(m[1], "low priority") {
				st.task.Priority = PriorityLow
			} else {
				st.task.Priority = PriorityHigh
			}
			return true
		},
	},
	{
		name: "relative day",
		re:   regexp.MustCompile(`(?i)\b(today|tonight|tomorrow)\b`),
		apply: func(m []string, st *state) bool {
			day := midnight(st.now)
			if strings.EqualFold(m[1], "tomorrow") {
				day = day.AddDate(0, 0, 1)
			}
			st.day = &day
			return true
		},
	},
	{
		name: "weekday",
		re:   regexp.MustCompile(`(?i)\b(next|on)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		apply: func(m []string, st *state) bool {
			target := weekdays[strings.ToLower(m[2])]
			ahead := (int(target) - int(st.now.Weekday()) + 7) % 7
			if ahead == 0 && strings.EqualFold(m[1], "next") {
				ahead = 7
			}
			day := midnight(st.now).AddDate(0, 0, ahead)
			st.day = &day
			return true
		},
	},
	{
		name: "clock time",
		re:   regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`),
		apply: func(m []string, st *state) bool {
			hour, _ := strconv.Atoi(m[1])
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			switch strings.ToLower(m[3]) {
			case "am":
				if hour < 1 || hour > 12 {
					return false
				}
				hour %= 12
			case "pm":
				if hour < 1 || hour > 12 {
					return false
				}
				hour = hour%12 + 12
			default:
				// A bare number is only a time when written as hh:mm.
				if m[2] == "" {
					return false
				}
			}
			if hour > 23 || minute > 59 {
				return false
			}
			st.hour, st.min, st.timed = hour, minute, true
			return true
		},
	},
	{
		name: "location",
		re:   regexp.MustCompile(`\b(?:[Aa]t|[Ii]n)\s+(the\s+[^,.;!?]+|\p{Lu}[^\s,.;!?]*(?:\s+\p{Lu}[^\s,.;!?]*)*)`),
		apply: func(m []string, st *state) bool {
			st.task.Location = strings.TrimSpace(m[1])
			return true
		},
	},
}

var spaces = regexp.MustCompile(`\s+`)

// Parse extracts a task from text relative to now. It returns nil when the
// text does not ask for a task or nothing is left to use as a title.
func Parse(text string, now time.Time) *ParsedTask {
	text = strings.TrimSpace(text)

	var body string
	for _, intent := range intents {
		if m := intent.FindStringSubmatch(text); m != nil {
			body = m[1]
			break
		}
	}
	if body == "" {
		return nil
	}

	st := &state{now: now, task: ParsedTask{Priority: PriorityNormal}}
	for _, r := range rules {
		body = applyRule(r, body, st)
	}

	title := strings.Trim(spaces.ReplaceAllString(body, " "), " ,.;!?")
	if title == "" {
		return nil
	}
	st.task.Title = title

	switch {
	case st.timed:
		day := midnight(now)
		if st.day != nil {
			day = *st.day
		}
		due := time.Date(day.Year(), day.Month(), day.Day(), st.hour, st.min, 0, 0, now.Location())
		if st.day == nil && due.Before(now) {
			due = due.AddDate(0, 0, 1)
		}
		st.task.Due = &due
	case st.day != nil:
		st.task.Due = st.day
		st.task.AllDay = true
	}

	task := st.task
	return &task
}

// applyRule cuts out the first match the rule accepts.
func applyRule(r rule, body string, st *state) string {
	for _, loc := range r.re.FindAllStringSubmatchIndex(body, -1) {
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = body[loc[2*i]:loc[2*i+1]]
			}
		}
		if r.apply(m, st) {
			return body[:loc[0]] + " " + body[loc[1]:]
		}
	}
	return body
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

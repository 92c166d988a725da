package contact

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for date-like strings. Values without a zone are read
// in the caller's location.
var localLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseDate parses a stored date-like string. Date-only and zone-less
// values are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ValidDate reports whether s is empty or parses as a date.
func ValidDate(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := ParseDate(s, time.UTC)
	return err == nil
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsOverdue reports whether date falls on a calendar day before now's.
// Absent or unparseable dates are never overdue.
func IsOverdue(date string, now time.Time) bool {
	t, ok := parseFor(date, now)
	if !ok {
		return false
	}
	return t.Before(Midnight(now))
}

// IsDueToday reports whether date falls on now's calendar day.
func IsDueToday(date string, now time.Time) bool {
	t, ok := parseFor(date, now)
	if !ok {
		return false
	}
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	return ty == ny && tm == nm && td == nd
}

// IsDueThisWeek reports whether date lies within [today's midnight,
// today's midnight + 7 days], both ends inclusive.
func IsDueThisWeek(date string, now time.Time) bool {
	t, ok := parseFor(date, now)
	if !ok {
		return false
	}
	start := Midnight(now)
	end := start.AddDate(0, 0, 7)
	return !t.Before(start) && !t.After(end)
}

// FormatDate renders "Jan 2", adding the year when it differs from now's.
// Absent dates render as ""; unparseable ones are returned unchanged.
func FormatDate(date string, now time.Time) string {
	if strings.TrimSpace(date) == "" {
		return ""
	}
	t, ok := parseFor(date, now)
	if !ok {
		return date
	}
	if t.Year() != now.Year() {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// FormatDateTime renders a call date with its time of day when one was given.
func FormatDateTime(date string, now time.Time) string {
	d := FormatDate(date, now)
	if d == "" || !strings.ContainsAny(date, "T ") {
		return d
	}
	t, ok := parseFor(date, now)
	if !ok {
		return d
	}
	return d + ", " + t.Format("3:04 PM")
}

func parseFor(date string, now time.Time) (time.Time, bool) {
	if strings.TrimSpace(date) == "" {
		return time.Time{}, false
	}
	t, err := ParseDate(date, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

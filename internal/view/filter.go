// Package view turns the contact collection into the filtered, sorted,
// paginated projection the interfaces render.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/outreach/internal/contact"
)

// FollowUpPeriod narrows the view by follow-up date classification.
type FollowUpPeriod string

const (
	FollowUpAll     FollowUpPeriod = "all"
	FollowUpToday   FollowUpPeriod = "today"
	FollowUpOverdue FollowUpPeriod = "overdue"
	FollowUpWeek    FollowUpPeriod = "week"
	FollowUpNone    FollowUpPeriod = "none"
)

// FollowUpPeriods lists the periods in menu order.
func FollowUpPeriods() []FollowUpPeriod {
	return []FollowUpPeriod{FollowUpAll, FollowUpToday, FollowUpOverdue, FollowUpWeek, FollowUpNone}
}

// ParseFollowUpPeriod parses a period name. Empty means all.
func ParseFollowUpPeriod(s string) (FollowUpPeriod, error) {
	switch p := FollowUpPeriod(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FollowUpAll, nil
	case FollowUpAll, FollowUpToday, FollowUpOverdue, FollowUpWeek, FollowUpNone:
		return p, nil
	default:
		return "", fmt.Errorf("unknown follow-up period %q", s)
	}
}

// FilterSpec selects contacts. All constraints combine with AND; an empty
// set or period means no constraint.
type FilterSpec struct {
	Search     string             `json:"search,omitempty"`
	Statuses   []contact.Status   `json:"status,omitempty"`
	Industries []contact.Industry `json:"industry,omitempty"`
	FollowUp   FollowUpPeriod     `json:"follow_up,omitempty"`
}

// IsUnconstrained reports whether the spec matches every contact.
func (f FilterSpec) IsUnconstrained() bool {
	return f.Search == "" && !f.HasConstraints()
}

// HasConstraints reports whether a status, industry or follow-up
// constraint is active. Search is not counted.
func (f FilterSpec) HasConstraints() bool {
	return len(f.Statuses) > 0 || len(f.Industries) > 0 || !f.followUp().isAll()
}

func (f FilterSpec) followUp() FollowUpPeriod {
	if f.FollowUp == "" {
		return FollowUpAll
	}
	return f.FollowUp
}

func (p FollowUpPeriod) isAll() bool {
	return p == "" || p == FollowUpAll
}

// Filter returns the contacts matching spec, in their original order.
// The input slice is not modified.
func Filter(records []contact.Contact, spec FilterSpec, now time.Time) []contact.Contact {
	query := strings.ToLower(spec.Search)
	out := make([]contact.Contact, 0, len(records))
	for i := range records {
		if matches(&records[i], spec, query, now) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single contact satisfies spec.
func Matches(c contact.Contact, spec FilterSpec, now time.Time) bool {
	return matches(&c, spec, strings.ToLower(spec.Search), now)
}

func matches(c *contact.Contact, spec FilterSpec, query string, now time.Time) bool {
	if query != "" && !matchesSearch(c, query) {
		return false
	}

	if len(spec.Statuses) > 0 && !containsStatus(spec.Statuses, c.Status) {
		return false
	}

	if len(spec.Industries) > 0 {
		if c.Industry == nil || !containsIndustry(spec.Industries, *c.Industry) {
			return false
		}
	}

	date := c.FollowUp()
	switch spec.followUp() {
	case FollowUpNone:
		return date == ""
	case FollowUpToday:
		return contact.IsDueToday(date, now)
	case FollowUpOverdue:
		return contact.IsOverdue(date, now)
	case FollowUpWeek:
		return contact.IsDueThisWeek(date, now)
	}
	return true
}

func matchesSearch(c *contact.Contact, query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Title), query) ||
		strings.Contains(strings.ToLower(c.Company), query) {
		return true
	}
	return c.Notes != nil && strings.Contains(strings.ToLower(*c.Notes), query)
}

func containsStatus(set []contact.Status, s contact.Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsIndustry(set []contact.Industry, i contact.Industry) bool {
	for _, v := range set {
		if v == i {
			return true
		}
	}
	return false
}

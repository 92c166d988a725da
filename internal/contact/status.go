package contact

import (
	"fmt"
	"strings"
)

// Status is the pipeline stage of a contact. The set is closed.
type Status string

const (
	StatusToContact      Status = "to_contact"
	StatusMessageSent    Status = "message_sent"
	StatusFollowUpNeeded Status = "follow_up_needed"
	StatusInConversation Status = "in_conversation"
	StatusCallScheduled  Status = "call_scheduled"
	StatusCallCompleted  Status = "call_completed"
	StatusNoResponse     Status = "no_response"
	StatusOnHold         Status = "on_hold"
)

// DefaultStatus is assigned to new contacts without an explicit status.
const DefaultStatus = StatusToContact

var allStatuses = []Status{
	StatusToContact,
	StatusMessageSent,
	StatusFollowUpNeeded,
	StatusInConversation,
	StatusCallScheduled,
	StatusCallCompleted,
	StatusNoResponse,
	StatusOnHold,
}

var statusLabels = map[Status]string{
	StatusToContact:      "To Contact",
	StatusMessageSent:    "Message Sent",
	StatusFollowUpNeeded: "Follow-Up Needed",
	StatusInConversation: "In Conversation",
	StatusCallScheduled:  "Call Scheduled",
	StatusCallCompleted:  "Call Completed",
	StatusNoResponse:     "No Response",
	StatusOnHold:         "On Hold",
}

// statusTones name the badge color for each stage.
var statusTones = map[Status]string{
	StatusToContact:      "gray",
	StatusMessageSent:    "blue",
	StatusFollowUpNeeded: "amber",
	StatusInConversation: "purple",
	StatusCallScheduled:  "green",
	StatusCallCompleted:  "teal",
	StatusNoResponse:     "red",
	StatusOnHold:         "slate",
}

// AllStatuses returns every status in pipeline order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label, or the raw code for unknown values.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Tone returns the badge color name for the status.
func (s Status) Tone() string {
	if t, ok := statusTones[s]; ok {
		return t
	}
	return "gray"
}

// ParseStatus accepts a status code ("call_scheduled") or its label
// ("Call Scheduled"), case-insensitively.
func ParseStatus(raw string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range allStatuses {
		if v == string(s) || v == strings.ToLower(statusLabels[s]) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

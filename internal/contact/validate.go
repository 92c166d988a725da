package contact

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/outreach/internal/errors"
)

// MaxNameChars is the longest accepted name, in characters.
const MaxNameChars = 100

// Input holds the editable fields of a contact as submitted by a form,
// CLI flags or a tool call. Empty optional strings mean "not set".
type Input struct {
	Name             string `json:"name"`
	Title            string `json:"title"`
	Company          string `json:"company"`
	Industry         string `json:"industry,omitempty"`
	LinkedInURL      string `json:"linkedin_url"`
	DateMessaged     string `json:"date_messaged,omitempty"`
	Status           string `json:"status,omitempty"`
	FollowUpDate     string `json:"follow_up_date,omitempty"`
	Notes            string `json:"notes,omitempty"`
	ConnectionType   string `json:"connection_type,omitempty"`
	ResponseReceived bool   `json:"response_received"`
	CallScheduled    bool   `json:"call_scheduled"`
	CallDate         string `json:"call_date,omitempty"`
}

// ValidationErrors maps a field name to its message.
type ValidationErrors map[string]string

// Err returns a VALIDATION_FAILED error, or nil when there are no errors.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return errors.NewValidation(v)
}

// Validate checks the form rules. The returned map is empty when the input
// is acceptable.
func Validate(in Input) ValidationErrors {
	errs := ValidationErrors{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) > MaxNameChars:
		errs["name"] = "Name is too long"
	}

	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Job title is required"
	}
	if strings.TrimSpace(in.Company) == "" {
		errs["company"] = "Company is required"
	}

	url := strings.TrimSpace(in.LinkedInURL)
	switch {
	case url == "":
		errs["linkedin_url"] = "LinkedIn URL is required"
	case !strings.Contains(strings.ToLower(url), "linkedin.com/"):
		errs["linkedin_url"] = "Must be a valid LinkedIn URL"
	}

	if strings.TrimSpace(in.Status) != "" {
		if _, err := ParseStatus(in.Status); err != nil {
			errs["status"] = "Unknown status"
		}
	}

	for field, value := range map[string]string{
		"date_messaged":  in.DateMessaged,
		"follow_up_date": in.FollowUpDate,
		"call_date":      in.CallDate,
	} {
		if !ValidDate(value) {
			errs[field] = "Invalid date"
		}
	}

	return errs
}

// Apply copies the editable fields of in onto c. It assumes in has
// passed Validate; an empty status keeps c's current status, or the
// default for a new contact.
func (in Input) Apply(c *Contact) {
	c.Name = strings.TrimSpace(in.Name)
	c.Title = strings.TrimSpace(in.Title)
	c.Company = strings.TrimSpace(in.Company)
	c.LinkedInURL = strings.TrimSpace(in.LinkedInURL)

	if s, err := ParseStatus(in.Status); err == nil {
		c.Status = s
	} else if !c.Status.Valid() {
		c.Status = DefaultStatus
	}

	c.Industry = nil
	if v := strings.TrimSpace(in.Industry); v != "" {
		c.Industry = Ptr(Industry(v))
	}
	c.ConnectionType = nil
	if v := strings.TrimSpace(in.ConnectionType); v != "" {
		c.ConnectionType = Ptr(ConnectionType(v))
	}

	c.DateMessaged = optional(in.DateMessaged)
	c.FollowUpDate = optional(in.FollowUpDate)
	c.CallDate = optional(in.CallDate)
	c.Notes = optional(in.Notes)

	c.ResponseReceived = in.ResponseReceived
	c.CallScheduled = in.CallScheduled
}

// InputFrom returns the editable fields of c, e.g. to prefill an edit form.
func InputFrom(c Contact) Input {
	in := Input{
		Name:             c.Name,
		Title:            c.Title,
		Company:          c.Company,
		LinkedInURL:      c.LinkedInURL,
		Status:           string(c.Status),
		DateMessaged:     deref(c.DateMessaged),
		FollowUpDate:     deref(c.FollowUpDate),
		Notes:            deref(c.Notes),
		CallDate:         deref(c.CallDate),
		ResponseReceived: c.ResponseReceived,
		CallScheduled:    c.CallScheduled,
	}
	if c.Industry != nil {
		in.Industry = string(*c.Industry)
	}
	if c.ConnectionType != nil {
		in.ConnectionType = string(*c.ConnectionType)
	}
	return in
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Package contact defines the outreach record, its enumerations, and the
// date classification rules that drive follow-up alerts.
package contact

// Contact is a single outreach record.
type Contact struct {
	// ID is a ULID assigned at creation; it never changes and is never reused
	ID string `json:"id"`

	Name        string `json:"name"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	LinkedInURL string `json:"linkedin_url"`

	// Industry is optional; suggested values are listed by Industries()
	Industry *Industry `json:"industry,omitempty"`

	// DateMessaged, FollowUpDate and CallDate are date-like strings
	// (see ParseDate). Nil means "not set".
	DateMessaged *string `json:"date_messaged,omitempty"`

	Status Status `json:"status"`

	FollowUpDate *string `json:"follow_up_date,omitempty"`

	Notes *string `json:"notes,omitempty"`

	// ConnectionType is optional; suggested values are listed by ConnectionTypes()
	ConnectionType *ConnectionType `json:"connection_type,omitempty"`

	ResponseReceived bool `json:"response_received"`
	CallScheduled    bool `json:"call_scheduled"`

	CallDate *string `json:"call_date,omitempty"`

	// CreatedAt is set once, in milliseconds since the Unix epoch
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is refreshed on every save; never lower than CreatedAt
	UpdatedAt int64 `json:"updated_at"`
}

// FollowUp returns the follow-up date, or "" when unset.
func (c *Contact) FollowUp() string {
	return deref(c.FollowUpDate)
}

// IndustryName returns the industry, or "" when unset.
func (c *Contact) IndustryName() string {
	if c.Industry == nil {
		return ""
	}
	return string(*c.Industry)
}

// Clone returns a deep copy; pointer fields are not shared.
func (c Contact) Clone() Contact {
	out := c
	out.Industry = clonePtr(c.Industry)
	out.DateMessaged = clonePtr(c.DateMessaged)
	out.FollowUpDate = clonePtr(c.FollowUpDate)
	out.Notes = clonePtr(c.Notes)
	out.ConnectionType = clonePtr(c.ConnectionType)
	out.CallDate = clonePtr(c.CallDate)
	return out
}

// CloneAll deep-copies a slice of contacts.
func CloneAll(in []Contact) []Contact {
	if in == nil {
		return nil
	}
	out := make([]Contact, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

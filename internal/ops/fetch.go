package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	contact.Contact
	StatusLabel string `json:"status_label"`
	Overdue     bool   `json:"overdue"`
	DueToday    bool   `json:"due_today"`
	DueThisWeek bool   `json:"due_this_week"`
}

// Fetch returns one contact with its follow-up classification.
func (t *Tracker) Fetch(ctx context.Context, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if err := checkContext(ctx, "fetch"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	c, ok := t.state.Find(id)
	t.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFound(id)
	}

	now := t.now()
	followUp := c.FollowUp()
	return &FetchOutput{
		Contact:     c.Clone(),
		StatusLabel: c.Status.Label(),
		Overdue:     contact.IsOverdue(followUp, now),
		DueToday:    contact.IsDueToday(followUp, now),
		DueThisWeek: contact.IsDueThisWeek(followUp, now),
	}, nil
}

package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// UpdateInput contains parameters for the Update operation. Fields fully
// replaces the editable fields of the contact; an empty status keeps the
// current one.
type UpdateInput struct {
	ID     string
	Fields contact.Input
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	contact.Contact
}

// Update replaces the editable fields of an existing contact.
func (t *Tracker) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if err := contact.Validate(input.Fields).Err(); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "update"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.state.Find(id)
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	c := existing.Clone()
	input.Fields.Apply(&c)

	if err := t.commit(ctx, tracker.UpdateContact{Contact: c}); err != nil {
		return nil, err
	}
	updated, _ := t.state.Find(id)
	t.log.Info(ctx, "contact updated", "id", id)

	return &UpdateOutput{Contact: updated.Clone()}, nil
}

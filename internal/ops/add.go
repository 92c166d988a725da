package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	contact.Input
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	contact.Contact
}

// Add validates the input and appends a new contact.
func (t *Tracker) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	if err := contact.Validate(input.Input).Err(); err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "add"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	id, err := contact.NewID(now)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("generate id: %w", err))
	}

	c := contact.Contact{
		ID:        id,
		CreatedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}
	input.Apply(&c)

	if err := t.commit(ctx, tracker.AddContact{Contact: c}); err != nil {
		return nil, err
	}
	t.log.Info(ctx, "contact added", "id", id)

	return &AddOutput{Contact: c}, nil
}

package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes one contact. Deletion is permanent.
func (t *Tracker) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if err := checkContext(ctx, "delete"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.Find(id); !ok {
		return nil, errors.NewNotFound(id)
	}
	if err := t.commit(ctx, tracker.DeleteContact{ID: id}); err != nil {
		return nil, err
	}
	t.log.Info(ctx, "contact deleted", "id", id)

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
	}, nil
}

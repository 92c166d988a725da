package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// BulkDeleteInput contains parameters for the BulkDelete operation.
type BulkDeleteInput struct {
	IDs []string
}

// BulkDeleteOutput contains the result of the BulkDelete operation.
type BulkDeleteOutput struct {
	Deleted int      `json:"deleted"`
	Missing []string `json:"missing,omitempty"`
	Message string   `json:"message"`
}

// BulkDelete removes every listed contact. At least one id is required
// (safety guard).
func (t *Tracker) BulkDelete(ctx context.Context, input BulkDeleteInput) (*BulkDeleteOutput, error) {
	ids := cleanIDs(input.IDs)
	if len(ids) == 0 {
		return nil, errors.NewInvalidRequest("ids are required")
	}
	if len(ids) > MaxBulkIDs {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("at most %d ids per bulk operation", MaxBulkIDs))
	}
	if err := checkContext(ctx, "bulk delete"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	found, missing := t.partition(ids)
	out := &BulkDeleteOutput{Missing: missing}
	if len(found) == 0 {
		out.Message = "no matching contacts"
		return out, nil
	}

	if err := t.commit(ctx,
		tracker.SetSelection{IDs: found},
		tracker.BulkDelete{},
	); err != nil {
		return nil, err
	}
	t.log.Info(ctx, "bulk delete", "count", len(found))

	out.Deleted = len(found)
	out.Message = fmt.Sprintf("deleted %d contacts", len(found))
	return out, nil
}

package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// BulkStatusInput contains parameters for the BulkUpdateStatus operation.
type BulkStatusInput struct {
	IDs    []string
	Status string
}

// BulkStatusOutput contains the result of the BulkUpdateStatus operation.
type BulkStatusOutput struct {
	Updated int            `json:"updated"`
	Status  contact.Status `json:"status"`
	Missing []string       `json:"missing,omitempty"`
	Message string         `json:"message"`
}

// BulkUpdateStatus sets the status of every listed contact. Other fields
// are left untouched. Unknown ids are reported in Missing.
func (t *Tracker) BulkUpdateStatus(ctx context.Context, input BulkStatusInput) (*BulkStatusOutput, error) {
	ids := cleanIDs(input.IDs)
	if len(ids) == 0 {
		return nil, errors.NewInvalidRequest("ids are required")
	}
	if len(ids) > MaxBulkIDs {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("at most %d ids per bulk operation", MaxBulkIDs))
	}
	if input.Status == "" {
		return nil, errors.NewInvalidRequest("status is required")
	}
	status, err := contact.ParseStatus(input.Status)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if err := checkContext(ctx, "bulk status change"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	found, missing := t.partition(ids)
	out := &BulkStatusOutput{Status: status, Missing: missing}
	if len(found) == 0 {
		out.Message = "no matching contacts"
		return out, nil
	}

	if err := t.commit(ctx,
		tracker.SetSelection{IDs: found},
		tracker.BulkStatusChange{Status: status},
	); err != nil {
		return nil, err
	}
	t.log.Info(ctx, "bulk status change", "count", len(found), "status", string(status))

	out.Updated = len(found)
	out.Message = fmt.Sprintf("updated %d contacts to %q", len(found), status.Label())
	return out, nil
}

// partition splits ids into known and unknown. The caller holds t.mu.
func (t *Tracker) partition(ids []string) (found, missing []string) {
	for _, id := range ids {
		if _, ok := t.state.Find(id); ok {
			found = append(found, id)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

package ops

import (
	"context"

	"github.com/hpungsan/outreach/internal/view"
)

// AlertsOutput contains the result of the Alerts operation.
type AlertsOutput struct {
	Overdue  int                 `json:"overdue"`
	DueToday int                 `json:"due_today"`
	Total    int                 `json:"total"`
	Show     bool                `json:"show"`
	Period   view.FollowUpPeriod `json:"period,omitempty"`
}

// Alerts counts overdue and due-today follow-ups over the whole collection.
// Period is the follow-up filter the banner's action applies.
func (t *Tracker) Alerts(ctx context.Context) (*AlertsOutput, error) {
	if err := checkContext(ctx, "alerts"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	v := view.View{}
	v.Overdue, v.DueToday = view.Alerts(t.state.Contacts, t.now())

	out := &AlertsOutput{
		Overdue:  v.Overdue,
		DueToday: v.DueToday,
		Total:    len(t.state.Contacts),
		Show:     v.ShowBanner(),
	}
	if out.Show {
		out.Period = v.BannerPeriod()
	}
	return out, nil
}

package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
	"github.com/hpungsan/outreach/internal/view"
)

// ListInput contains parameters for the List operation. Empty values mean
// "no constraint" or the default.
type ListInput struct {
	Search     string
	Statuses   []string
	Industries []string
	FollowUp   string
	Sort       string
	Order      string
	Page       int // 1-indexed, clamped into range
	PageSize   int // default: config page size
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	view.View
	Filter view.FilterSpec `json:"filter"`
	Sort   view.SortSpec   `json:"sort"`
}

// ParseFilter builds a FilterSpec from raw values.
func ParseFilter(search string, statuses, industries []string, followUp string) (view.FilterSpec, error) {
	spec := view.FilterSpec{Search: search}

	for _, raw := range statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := contact.ParseStatus(raw)
		if err != nil {
			return view.FilterSpec{}, errors.NewInvalidRequest(err.Error())
		}
		spec.Statuses = append(spec.Statuses, s)
	}

	for _, raw := range industries {
		if v := strings.TrimSpace(raw); v != "" {
			spec.Industries = append(spec.Industries, contact.Industry(v))
		}
	}

	period, err := view.ParseFollowUpPeriod(followUp)
	if err != nil {
		return view.FilterSpec{}, errors.NewInvalidRequest(err.Error())
	}
	spec.FollowUp = period

	return spec, nil
}

// ParseSort builds a SortSpec from raw values.
func ParseSort(field, order string) (view.SortSpec, error) {
	f, err := view.ParseSortField(field)
	if err != nil {
		return view.SortSpec{}, errors.NewInvalidRequest(err.Error())
	}
	o, err := view.ParseSortOrder(order)
	if err != nil {
		return view.SortSpec{}, errors.NewInvalidRequest(err.Error())
	}
	return view.SortSpec{Field: f, Order: o}, nil
}

// List composes one page of the filtered, sorted collection.
func (t *Tracker) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PageSize < 0 || input.PageSize > MaxPageSize {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize))
	}
	filter, err := ParseFilter(input.Search, input.Statuses, input.Industries, input.FollowUp)
	if err != nil {
		return nil, err
	}
	sortSpec, err := ParseSort(input.Sort, input.Order)
	if err != nil {
		return nil, err
	}
	if err := checkContext(ctx, "list"); err != nil {
		return nil, err
	}

	page := input.Page
	if page == 0 {
		page = 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.reducer(input.PageSize)
	s := r.Apply(t.state,
		tracker.SetFilter{Filter: filter},
		tracker.SetSort{Sort: sortSpec},
		tracker.SetPage{Page: page},
	)
	v := r.View(s)
	v.Items = contact.CloneAll(v.Items)
	v.Sorted = nil

	return &ListOutput{
		View:   v,
		Filter: filter,
		Sort:   sortSpec,
	}, nil
}

package view

import (
	"time"

	"github.com/hpungsan/outreach/internal/contact"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 25

// ViewSpec bundles everything Compose needs besides the records.
type ViewSpec struct {
	Filter   FilterSpec
	Sort     SortSpec
	Page     int
	PageSize int
}

// View is the derived projection rendered by every interface.
type View struct {
	// Sorted is the full filtered and sorted sequence
	Sorted []contact.Contact `json:"-"`

	// Items is the requested page of Sorted
	Items []contact.Contact `json:"items"`

	Total     int `json:"total"`
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`

	// Overdue and DueToday count the whole collection, ignoring the filter
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
}

// PageCount returns ceil(total/size); 0 for an empty result.
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage clamps page into [1, max(1, pageCount)].
func ClampPage(page, pageCount int) int {
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Alerts counts overdue and due-today follow-ups across records.
func Alerts(records []contact.Contact, now time.Time) (overdue, dueToday int) {
	for i := range records {
		d := records[i].FollowUp()
		if contact.IsOverdue(d, now) {
			overdue++
		}
		if contact.IsDueToday(d, now) {
			dueToday++
		}
	}
	return overdue, dueToday
}

// Compose filters, sorts and paginates records. Pages are 1-indexed; a
// page outside [1, PageCount] yields an empty Items slice.
func Compose(records []contact.Contact, spec ViewSpec, now time.Time) View {
	size := spec.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	sorted := Sort(Filter(records, spec.Filter, now), spec.Sort)
	total := len(sorted)

	v := View{
		Sorted:    sorted,
		Total:     total,
		Page:      spec.Page,
		PageSize:  size,
		PageCount: PageCount(total, size),
		Items:     []contact.Contact{},
	}

	if spec.Page >= 1 {
		start := (spec.Page - 1) * size
		if start < total {
			end := start + size
			if end > total {
				end = total
			}
			v.Items = sorted[start:end]
		}
	}

	v.Overdue, v.DueToday = Alerts(records, now)
	return v
}

// ShowBanner reports whether the alert banner should be shown.
func (v View) ShowBanner() bool {
	return v.Overdue > 0 || v.DueToday > 0
}

// BannerPeriod is the filter the banner's "View" action applies.
func (v View) BannerPeriod() FollowUpPeriod {
	if v.Overdue > 0 {
		return FollowUpOverdue
	}
	return FollowUpToday
}

// PageRange returns the 1-indexed positions of the first and last item
// shown, or 0, 0 for an empty page.
func (v View) PageRange() (from, to int) {
	if len(v.Items) == 0 {
		return 0, 0
	}
	from = (v.Page-1)*v.PageSize + 1
	return from, from + len(v.Items) - 1
}

// PageIDs returns the ids on the current page.
func (v View) PageIDs() []string {
	ids := make([]string, len(v.Items))
	for i := range v.Items {
		ids[i] = v.Items[i].ID
	}
	return ids
}

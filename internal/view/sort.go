package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
)

// SortField names a sortable contact column.
type SortField string

const (
	SortName         SortField = "name"
	SortTitle        SortField = "title"
	SortCompany      SortField = "company"
	SortStatus       SortField = "status"
	SortIndustry     SortField = "industry"
	SortFollowUpDate SortField = "follow_up_date"
	SortDateMessaged SortField = "date_messaged"
	SortCallDate     SortField = "call_date"
	SortCreatedAt    SortField = "created_at"
	SortUpdatedAt    SortField = "updated_at"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SortSpec selects the ordering of the view.
type SortSpec struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort orders by follow-up date, soonest first.
var DefaultSort = SortSpec{Field: SortFollowUpDate, Order: Asc}

// SortFields lists every sortable field.
func SortFields() []SortField {
	return []SortField{
		SortName, SortTitle, SortCompany, SortStatus, SortIndustry,
		SortFollowUpDate, SortDateMessaged, SortCallDate, SortCreatedAt, SortUpdatedAt,
	}
}

// ParseSortField parses a field name. Empty means the default field.
func ParseSortField(s string) (SortField, error) {
	v := SortField(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return DefaultSort.Field, nil
	}
	for _, f := range SortFields() {
		if v == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseSortOrder parses asc/desc. Empty means asc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return Asc, nil
	case Asc, Desc:
		return v, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Toggle applies a column-header click: the same field flips direction,
// a different field starts ascending.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if s.Field == field {
		if s.Order == Desc {
			return SortSpec{Field: field, Order: Asc}
		}
		return SortSpec{Field: field, Order: Desc}
	}
	return SortSpec{Field: field, Order: Asc}
}

func (s SortSpec) normalized() SortSpec {
	if s.Field == "" {
		s.Field = DefaultSort.Field
	}
	if s.Order != Desc {
		s.Order = Asc
	}
	return s
}

// key is a single field value; present=false means the value is absent.
type key struct {
	present bool
	text    string
	num     int64
	numeric bool
}

func fieldKey(c *contact.Contact, f SortField) key {
	switch f {
	case SortName:
		return textKey(c.Name)
	case SortTitle:
		return textKey(c.Title)
	case SortCompany:
		return textKey(c.Company)
	case SortStatus:
		return textKey(string(c.Status))
	case SortIndustry:
		if c.Industry == nil {
			return key{}
		}
		return textKey(string(*c.Industry))
	case SortFollowUpDate:
		return ptrKey(c.FollowUpDate)
	case SortDateMessaged:
		return ptrKey(c.DateMessaged)
	case SortCallDate:
		return ptrKey(c.CallDate)
	case SortCreatedAt:
		return key{present: true, num: c.CreatedAt, numeric: true}
	case SortUpdatedAt:
		return key{present: true, num: c.UpdatedAt, numeric: true}
	}
	return key{}
}

func textKey(s string) key {
	return key{present: true, text: s}
}

func ptrKey(p *string) key {
	if p == nil {
		return key{}
	}
	return textKey(*p)
}

// compare returns -1, 0 or 1. Absent values sort after present ones in
// both directions; only present-vs-present results are negated for desc.
func compare(a, b key, order SortOrder) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return 1
	case !b.present:
		return -1
	}

	var c int
	if a.numeric {
		switch {
		case a.num < b.num:
			c = -1
		case a.num > b.num:
			c = 1
		}
	} else {
		c = strings.Compare(a.text, b.text)
	}

	if order == Desc {
		return -c
	}
	return c
}

// Sort returns a stably ordered copy of records.
func Sort(records []contact.Contact, spec SortSpec) []contact.Contact {
	spec = spec.normalized()
	out := make([]contact.Contact, len(records))
	copy(out, records)

	keys := make([]key, len(out))
	for i := range out {
		keys[i] = fieldKey(&out[i], spec.Field)
	}

	sort.Stable(byKey{records: out, keys: keys, order: spec.Order})
	return out
}

type byKey struct {
	records []contact.Contact
	keys    []key
	order   SortOrder
}

func (b byKey) Len() int { return len(b.records) }

func (b byKey) Less(i, j int) bool {
	return compare(b.keys[i], b.keys[j], b.order) < 0
}

func (b byKey) Swap(i, j int) {
	b.records[i], b.records[j] = b.records[j], b.records[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Package tracker models the outreach table as a pure reducer:
// Reduce(state, event) returns the next state without touching the input.
package tracker

import (
	"time"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/view"
)

// ModalMode is the form dialog state.
type ModalMode string

const (
	ModalClosed ModalMode = "closed"
	ModalCreate ModalMode = "create"
	ModalEdit   ModalMode = "edit"
)

// Modal is closed, open for a new contact, or open to edit EditID.
type Modal struct {
	Mode   ModalMode `json:"mode"`
	EditID string    `json:"edit_id,omitempty"`
}

// State bundles the record collection with the view state around it.
type State struct {
	Contacts []contact.Contact
	Selected map[string]bool
	Filter   view.FilterSpec
	Sort     view.SortSpec
	Page     int
	Modal    Modal
}

// NewState returns the initial state over contacts.
func NewState(contacts []contact.Contact) State {
	return State{
		Contacts: contacts,
		Selected: map[string]bool{},
		Sort:     view.DefaultSort,
		Page:     1,
		Modal:    Modal{Mode: ModalClosed},
	}
}

// Reducer applies events. Now stamps updated_at on mutations and
// classifies dates for filtering; PageSize drives page clamping.
type Reducer struct {
	Now      func() time.Time
	PageSize int
}

func (r Reducer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r Reducer) pageSize() int {
	if r.PageSize <= 0 {
		return view.DefaultPageSize
	}
	return r.PageSize
}

// View composes the current page of s.
func (r Reducer) View(s State) view.View {
	return view.Compose(s.Contacts, view.ViewSpec{
		Filter:   s.Filter,
		Sort:     s.Sort,
		Page:     s.Page,
		PageSize: r.pageSize(),
	}, r.now())
}

// Find returns the contact with id, if present.
func (s State) Find(id string) (contact.Contact, bool) {
	if i := s.index(id); i >= 0 {
		return s.Contacts[i], true
	}
	return contact.Contact{}, false
}

// SelectedIDs returns the selected ids in collection order.
func (s State) SelectedIDs() []string {
	out := make([]string, 0, len(s.Selected))
	for i := range s.Contacts {
		if s.Selected[s.Contacts[i].ID] {
			out = append(out, s.Contacts[i].ID)
		}
	}
	return out
}

func (s State) index(id string) int {
	for i := range s.Contacts {
		if s.Contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// clone copies the parts of s that Reduce may modify in place.
func (s State) clone() State {
	out := s
	out.Contacts = make([]contact.Contact, len(s.Contacts))
	copy(out.Contacts, s.Contacts)
	out.Selected = make(map[string]bool, len(s.Selected))
	for id, on := range s.Selected {
		if on {
			out.Selected[id] = true
		}
	}
	out.Filter.Statuses = append([]contact.Status(nil), s.Filter.Statuses...)
	out.Filter.Industries = append([]contact.Industry(nil), s.Filter.Industries...)
	return out
}

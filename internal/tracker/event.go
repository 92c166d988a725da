package tracker

import (
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/view"
)

// Event is a state transition. The set of events is closed.
type Event interface {
	event()
}

// AddContact appends a fully built contact.
type AddContact struct{ Contact contact.Contact }

// UpdateContact replaces the editable fields of the contact with Contact.ID.
type UpdateContact struct{ Contact contact.Contact }

// DeleteContact removes one contact.
type DeleteContact struct{ ID string }

// ReplaceContacts swaps the whole collection, as after an import.
type ReplaceContacts struct{ Contacts []contact.Contact }

// BulkDelete removes every selected contact.
type BulkDelete struct{}

// BulkStatusChange sets Status on every selected contact.
type BulkStatusChange struct{ Status contact.Status }

// SetFilter replaces the whole filter.
type SetFilter struct{ Filter view.FilterSpec }

// SetSearch replaces only the search text.
type SetSearch struct{ Search string }

// ClearFilters resets status, industry and follow-up constraints.
type ClearFilters struct{}

// SetSort replaces the sort.
type SetSort struct{ Sort view.SortSpec }

// ToggleSort applies a column-header click.
type ToggleSort struct{ Field view.SortField }

// SetPage jumps to a page.
type SetPage struct{ Page int }

type NextPage struct{}

type PrevPage struct{}

// ToggleSelect flips one id in the selection.
type ToggleSelect struct{ ID string }

// ToggleSelectAll selects or clears every contact on the current page.
type ToggleSelectAll struct{}

// SetSelection replaces the selection. Unknown ids are dropped.
type SetSelection struct{ IDs []string }

type ClearSelection struct{}

type OpenCreate struct{}

type OpenEdit struct{ ID string }

type CloseModal struct{}

func (AddContact) event()       {}
func (UpdateContact) event()    {}
func (DeleteContact) event()    {}
func (ReplaceContacts) event()  {}
func (BulkDelete) event()       {}
func (BulkStatusChange) event() {}
func (SetFilter) event()        {}
func (SetSearch) event()        {}
func (ClearFilters) event()     {}
func (SetSort) event()          {}
func (ToggleSort) event()       {}
func (SetPage) event()          {}
func (NextPage) event()         {}
func (PrevPage) event()         {}
func (ToggleSelect) event()     {}
func (ToggleSelectAll) event()  {}
func (SetSelection) event()     {}
func (ClearSelection) event()   {}
func (OpenCreate) event()       {}
func (OpenEdit) event()         {}
func (CloseModal) event()       {}

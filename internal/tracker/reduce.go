package tracker

import (
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/view"
)

// Reduce returns the state after ev. s is never modified.
func (r Reducer) Reduce(s State, ev Event) State {
	next := s.clone()

	switch e := ev.(type) {
	case AddContact:
		if next.index(e.Contact.ID) >= 0 {
			return s
		}
		next.Contacts = append(next.Contacts, e.Contact.Clone())
		next.Modal = Modal{Mode: ModalClosed}
		return r.clamp(next)

	case UpdateContact:
		i := next.index(e.Contact.ID)
		if i < 0 {
			return s
		}
		old := next.Contacts[i]
		updated := e.Contact.Clone()
		updated.ID = old.ID
		updated.CreatedAt = old.CreatedAt
		updated.UpdatedAt = r.stamp(old.CreatedAt)
		next.Contacts[i] = updated
		next.Modal = Modal{Mode: ModalClosed}
		return r.clamp(next)

	case DeleteContact:
		i := next.index(e.ID)
		if i < 0 {
			return s
		}
		next.Contacts = append(next.Contacts[:i], next.Contacts[i+1:]...)
		delete(next.Selected, e.ID)
		if next.Modal.Mode == ModalEdit && next.Modal.EditID == e.ID {
			next.Modal = Modal{Mode: ModalClosed}
		}
		return r.clamp(next)

	case ReplaceContacts:
		next.Contacts = contact.CloneAll(e.Contacts)
		for id := range next.Selected {
			if next.index(id) < 0 {
				delete(next.Selected, id)
			}
		}
		if next.Modal.Mode == ModalEdit && next.index(next.Modal.EditID) < 0 {
			next.Modal = Modal{Mode: ModalClosed}
		}
		return r.clamp(next)

	case BulkDelete:
		if len(next.Selected) == 0 {
			return s
		}
		kept := next.Contacts[:0]
		for _, c := range next.Contacts {
			if !next.Selected[c.ID] {
				kept = append(kept, c)
			}
		}
		next.Contacts = kept
		next.Selected = map[string]bool{}
		return r.clamp(next)

	case BulkStatusChange:
		if !e.Status.Valid() || len(next.Selected) == 0 {
			return s
		}
		for i := range next.Contacts {
			c := &next.Contacts[i]
			if next.Selected[c.ID] {
				c.Status = e.Status
				c.UpdatedAt = r.stamp(c.CreatedAt)
			}
		}
		next.Selected = map[string]bool{}
		return next

	case SetFilter:
		next.Filter = e.Filter
		return r.clamp(next)

	case SetSearch:
		next.Filter.Search = e.Search
		return r.clamp(next)

	case ClearFilters:
		next.Filter = view.FilterSpec{Search: next.Filter.Search}
		return r.clamp(next)

	case SetSort:
		next.Sort = e.Sort
		return r.clamp(next)

	case ToggleSort:
		next.Sort = next.Sort.Toggle(e.Field)
		return r.clamp(next)

	case SetPage:
		next.Page = e.Page
		return r.clamp(next)

	case NextPage:
		next.Page++
		return r.clamp(next)

	case PrevPage:
		next.Page--
		return r.clamp(next)

	case ToggleSelect:
		if next.index(e.ID) < 0 {
			return s
		}
		if next.Selected[e.ID] {
			delete(next.Selected, e.ID)
		} else {
			next.Selected[e.ID] = true
		}
		return next

	case ToggleSelectAll:
		pageIDs := r.View(next).PageIDs()
		if len(pageIDs) == 0 {
			return s
		}
		if SelectionOf(next.Selected, pageIDs) == SelectionAll {
			next.Selected = map[string]bool{}
		} else {
			next.Selected = make(map[string]bool, len(pageIDs))
			for _, id := range pageIDs {
				next.Selected[id] = true
			}
		}
		return next

	case SetSelection:
		next.Selected = map[string]bool{}
		for _, id := range e.IDs {
			if next.index(id) >= 0 {
				next.Selected[id] = true
			}
		}
		return next

	case ClearSelection:
		next.Selected = map[string]bool{}
		return next

	case OpenCreate:
		next.Modal = Modal{Mode: ModalCreate}
		return next

	case OpenEdit:
		if next.index(e.ID) < 0 {
			return s
		}
		next.Modal = Modal{Mode: ModalEdit, EditID: e.ID}
		return next

	case CloseModal:
		next.Modal = Modal{Mode: ModalClosed}
		return next
	}

	return s
}

// stamp returns the mutation timestamp, never below createdAt.
func (r Reducer) stamp(createdAt int64) int64 {
	ts := r.now().UnixMilli()
	if ts < createdAt {
		return createdAt
	}
	return ts
}

// clamp moves the page into [1, max(1, page count)] for the current filter.
func (r Reducer) clamp(s State) State {
	total := len(view.Filter(s.Contacts, s.Filter, r.now()))
	s.Page = view.ClampPage(s.Page, view.PageCount(total, r.pageSize()))
	return s
}

// Apply reduces a sequence of events.
func (r Reducer) Apply(s State, events ...Event) State {
	for _, ev := range events {
		s = r.Reduce(s, ev)
	}
	return s
}

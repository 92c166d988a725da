package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/view"
)

var testNow = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func testReducer() Reducer {
	return Reducer{Now: func() time.Time { return testNow }, PageSize: 3}
}

func mk(id string) contact.Contact {
	return contact.Contact{
		ID:          id,
		Name:        "Name " + id,
		Title:       "Title",
		Company:     "Co",
		LinkedInURL: "https://linkedin.com/in/" + id,
		Status:      contact.StatusToContact,
		CreatedAt:   1000,
		UpdatedAt:   1000,
	}
}

func seeded(n int) State {
	cs := make([]contact.Contact, n)
	for i := range cs {
		cs[i] = mk(fmt.Sprintf("c%d", i))
	}
	s := NewState(cs)
	s.Sort = view.SortSpec{Field: view.SortName, Order: view.Asc}
	return s
}

func TestReduce_AddContact(t *testing.T) {
	r := testReducer()
	s := seeded(1)
	s.Modal = Modal{Mode: ModalCreate}

	next := r.Reduce(s, AddContact{Contact: mk("new")})
	require.Len(t, next.Contacts, 2)
	require.Equal(t, ModalClosed, next.Modal.Mode)
	require.Len(t, s.Contacts, 1, "input state must not change")

	dup := r.Reduce(next, AddContact{Contact: mk("new")})
	require.Len(t, dup.Contacts, 2, "duplicate id is a no-op")
}

func TestReduce_UpdateContact_PreservesIdentity(t *testing.T) {
	r := testReducer()
	s := seeded(2)

	edited := mk("c1")
	edited.Name = "Renamed"
	edited.CreatedAt = 5
	edited.Notes = contact.Ptr("new notes")

	next := r.Reduce(s, UpdateContact{Contact: edited})
	got, ok := next.Find("c1")
	require.True(t, ok)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, int64(1000), got.CreatedAt, "created_at is preserved")
	require.Equal(t, testNow.UnixMilli(), got.UpdatedAt)
	require.Equal(t, "new notes", *got.Notes)

	orig, _ := s.Find("c1")
	require.Equal(t, "Name c1", orig.Name)
}

func TestReduce_UpdateContact_UpdatedAtNeverBelowCreatedAt(t *testing.T) {
	r := Reducer{Now: func() time.Time { return time.UnixMilli(10) }}
	s := NewState([]contact.Contact{mk("a")})

	next := r.Reduce(s, UpdateContact{Contact: mk("a")})
	got, _ := next.Find("a")
	require.GreaterOrEqual(t, got.UpdatedAt, got.CreatedAt)
}

func TestReduce_UpdateUnknownIsNoop(t *testing.T) {
	r := testReducer()
	s := seeded(1)
	next := r.Reduce(s, UpdateContact{Contact: mk("ghost")})
	if diff := cmp.Diff(s.Contacts, next.Contacts); diff != "" {
		t.Errorf("unexpected change:\n%s", diff)
	}
}

func TestReduce_DeleteRemovesFromSelection(t *testing.T) {
	r := testReducer()
	s := seeded(3)
	s = r.Apply(s, ToggleSelect{ID: "c1"}, ToggleSelect{ID: "c2"})

	next := r.Reduce(s, DeleteContact{ID: "c1"})
	_, found := next.Find("c1")
	require.False(t, found)
	require.False(t, next.Selected["c1"], "no stale id may remain selected")
	require.Equal(t, []string{"c2"}, next.SelectedIDs())

	require.True(t, s.Selected["c1"], "input selection must not change")
}

func TestReduce_DeleteClosesEditModal(t *testing.T) {
	r := testReducer()
	s := r.Reduce(seeded(2), OpenEdit{ID: "c0"})
	require.Equal(t, ModalEdit, s.Modal.Mode)

	next := r.Reduce(s, DeleteContact{ID: "c0"})
	require.Equal(t, ModalClosed, next.Modal.Mode)
}

func TestReduce_ReplaceContacts(t *testing.T) {
	r := testReducer()
	s := seeded(5)
	s.Page = 2
	s = r.Apply(s, SetSelection{IDs: []string{"c0", "c4"}}, OpenEdit{ID: "c4"})

	next := r.Reduce(s, ReplaceContacts{Contacts: []contact.Contact{mk("c0"), mk("x")}})
	require.Len(t, next.Contacts, 2)
	require.Equal(t, []string{"c0"}, next.SelectedIDs())
	require.Equal(t, ModalClosed, next.Modal.Mode)
	require.Equal(t, 1, next.Page)
	require.Len(t, s.Contacts, 5)
}

func TestReduce_BulkDelete(t *testing.T) {
	r := testReducer()
	s := r.Apply(seeded(4), SetSelection{IDs: []string{"c0", "c2", "ghost"}})
	require.Len(t, s.Selected, 2, "unknown ids are dropped")

	next := r.Reduce(s, BulkDelete{})
	require.Len(t, next.Contacts, 2)
	require.Empty(t, next.Selected)
	_, ok := next.Find("c1")
	require.True(t, ok)
}

func TestReduce_BulkStatusChange(t *testing.T) {
	r := testReducer()
	s := seeded(5)
	s.Contacts[3].Notes = contact.Ptr("keep me")
	s = r.Reduce(s, SetSelection{IDs: []string{"c1", "c3"}})

	next := r.Reduce(s, BulkStatusChange{Status: contact.StatusCallScheduled})
	require.Empty(t, next.Selected, "selection clears after bulk status")

	for i, c := range next.Contacts {
		before := s.Contacts[i]
		if c.ID == "c1" || c.ID == "c3" {
			require.Equal(t, contact.StatusCallScheduled, c.Status)
			require.Equal(t, testNow.UnixMilli(), c.UpdatedAt)

			// every other field is untouched
			c.Status, c.UpdatedAt = before.Status, before.UpdatedAt
		}
		if diff := cmp.Diff(before, c); diff != "" {
			t.Errorf("%s changed beyond status/updated_at:\n%s", c.ID, diff)
		}
	}
}

func TestReduce_BulkStatusChange_InvalidStatusIsNoop(t *testing.T) {
	r := testReducer()
	s := r.Reduce(seeded(2), SetSelection{IDs: []string{"c0"}})
	next := r.Reduce(s, BulkStatusChange{Status: "archived"})
	require.Equal(t, contact.StatusToContact, next.Contacts[0].Status)
	require.True(t, next.Selected["c0"])
}

func TestReduce_FilterKeepsSelectionAndClampsPage(t *testing.T) {
	r := testReducer()
	s := seeded(7) // 3 pages at size 3
	s = r.Apply(s, SetPage{Page: 3}, ToggleSelect{ID: "c6"})
	require.Equal(t, 3, s.Page)

	next := r.Reduce(s, SetSearch{Search: "name c1"})
	require.Equal(t, 1, next.Page)
	require.True(t, next.Selected["c6"], "filter changes keep the selection")

	cleared := r.Reduce(next, ClearFilters{})
	require.Equal(t, "name c1", cleared.Filter.Search, "clear keeps search text")
}

func TestReduce_ClearFilters(t *testing.T) {
	r := testReducer()
	s := r.Reduce(seeded(2), SetFilter{Filter: view.FilterSpec{
		Statuses: []contact.Status{contact.StatusOnHold},
		FollowUp: view.FollowUpNone,
	}})
	require.True(t, s.Filter.HasConstraints())

	next := r.Reduce(s, ClearFilters{})
	require.False(t, next.Filter.HasConstraints())
	require.Len(t, s.Filter.Statuses, 1, "input filter must not change")
}

func TestReduce_Paging(t *testing.T) {
	r := testReducer()
	s := seeded(7)

	s = r.Reduce(s, NextPage{})
	require.Equal(t, 2, s.Page)
	s = r.Apply(s, NextPage{}, NextPage{}, NextPage{})
	require.Equal(t, 3, s.Page)
	s = r.Apply(s, PrevPage{}, PrevPage{}, PrevPage{})
	require.Equal(t, 1, s.Page)
	s = r.Reduce(s, SetPage{Page: 99})
	require.Equal(t, 3, s.Page)

	empty := r.Reduce(NewState(nil), SetPage{Page: 4})
	require.Equal(t, 1, empty.Page)
}

func TestReduce_ToggleSort(t *testing.T) {
	r := testReducer()
	s := seeded(2)

	s = r.Reduce(s, ToggleSort{Field: view.SortName})
	require.Equal(t, view.SortSpec{Field: view.SortName, Order: view.Desc}, s.Sort)
	s = r.Reduce(s, ToggleSort{Field: view.SortCompany})
	require.Equal(t, view.SortSpec{Field: view.SortCompany, Order: view.Asc}, s.Sort)
}

func TestReduce_ToggleSelectAll_PageScoped(t *testing.T) {
	r := testReducer()
	s := seeded(5) // page 1: c0 c1 c2

	require.Equal(t, SelectionNone, r.SelectionState(s))

	s = r.Reduce(s, ToggleSelect{ID: "c1"})
	require.Equal(t, SelectionPartial, r.SelectionState(s))

	s = r.Reduce(s, ToggleSelectAll{})
	require.Equal(t, []string{"c0", "c1", "c2"}, s.SelectedIDs())
	require.Equal(t, SelectionAll, r.SelectionState(s))

	s = r.Reduce(s, ToggleSelectAll{})
	require.Empty(t, s.Selected)
	require.Equal(t, SelectionNone, r.SelectionState(s))
}

func TestReduce_ToggleSelectAll_ReplacesOffPageSelection(t *testing.T) {
	r := testReducer()
	s := r.Apply(seeded(5), ToggleSelect{ID: "c4"}, ToggleSelectAll{})
	require.Equal(t, []string{"c0", "c1", "c2"}, s.SelectedIDs())
}

func TestReduce_Modal(t *testing.T) {
	r := testReducer()
	s := seeded(1)

	s = r.Reduce(s, OpenCreate{})
	require.Equal(t, Modal{Mode: ModalCreate}, s.Modal)
	s = r.Reduce(s, CloseModal{})
	require.Equal(t, ModalClosed, s.Modal.Mode)

	s = r.Reduce(s, OpenEdit{ID: "ghost"})
	require.Equal(t, ModalClosed, s.Modal.Mode, "unknown id keeps the modal closed")

	s = r.Reduce(s, OpenEdit{ID: "c0"})
	require.Equal(t, Modal{Mode: ModalEdit, EditID: "c0"}, s.Modal)

	s = r.Reduce(s, UpdateContact{Contact: mk("c0")})
	require.Equal(t, ModalClosed, s.Modal.Mode)
}

func TestSelectionOf(t *testing.T) {
	sel := map[string]bool{"a": true}
	tests := []struct {
		page []string
		want Selection
	}{
		{nil, SelectionNone},
		{[]string{"b"}, SelectionNone},
		{[]string{"a", "b"}, SelectionPartial},
		{[]string{"a"}, SelectionAll},
	}
	for _, tt := range tests {
		if got := SelectionOf(sel, tt.page); got != tt.want {
			t.Errorf("SelectionOf(%v) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

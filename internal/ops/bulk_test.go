package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
)

func TestBulkUpdateStatus(t *testing.T) {
	tr, slot := newTestTracker(t)
	a := mustAdd(t, tr, validInput("ada"))
	b := mustAdd(t, tr, validInput("grace"))
	c := mustAdd(t, tr, validInput("linus"))

	out, err := tr.BulkUpdateStatus(context.Background(), BulkStatusInput{
		IDs:    []string{a, c, "ghost"},
		Status: "message_sent",
	})
	if err != nil {
		t.Fatalf("BulkUpdateStatus failed: %v", err)
	}
	if out.Updated != 2 {
		t.Errorf("Updated = %d, want 2", out.Updated)
	}
	if len(out.Missing) != 1 || out.Missing[0] != "ghost" {
		t.Errorf("Missing = %v, want [ghost]", out.Missing)
	}

	want := map[string]contact.Status{
		a: contact.StatusMessageSent,
		b: contact.StatusToContact,
		c: contact.StatusMessageSent,
	}
	for _, got := range slot.saved {
		if got.Status != want[got.ID] {
			t.Errorf("%s: Status = %q, want %q", got.Name, got.Status, want[got.ID])
		}
	}
}

func TestBulkUpdateStatus_LeavesOtherFields(t *testing.T) {
	tr, _ := newTestTracker(t)
	in := validInput("ada")
	in.Notes = "keep me"
	in.FollowUpDate = "2025-06-20"
	id := mustAdd(t, tr, in)

	if _, err := tr.BulkUpdateStatus(context.Background(), BulkStatusInput{IDs: []string{id}, Status: "On Hold"}); err != nil {
		t.Fatalf("BulkUpdateStatus failed: %v", err)
	}
	got, _ := tr.Fetch(context.Background(), FetchInput{ID: id})
	if got.Notes == nil || *got.Notes != "keep me" {
		t.Errorf("Notes = %v", got.Notes)
	}
	if got.FollowUp() != "2025-06-20" {
		t.Errorf("FollowUpDate = %q", got.FollowUp())
	}
	if got.Status != contact.StatusOnHold {
		t.Errorf("Status = %q", got.Status)
	}
}

func TestBulkUpdateStatus_Guards(t *testing.T) {
	tr, slot := newTestTracker(t)
	id := mustAdd(t, tr, validInput("ada"))
	saves := slot.saves

	tests := []struct {
		name  string
		input BulkStatusInput
	}{
		{"no ids", BulkStatusInput{Status: "on_hold"}},
		{"blank ids", BulkStatusInput{IDs: []string{" ", ""}, Status: "on_hold"}},
		{"no status", BulkStatusInput{IDs: []string{id}}},
		{"unknown status", BulkStatusInput{IDs: []string{id}, Status: "ghosted"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.BulkUpdateStatus(context.Background(), tc.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got: %v", err)
			}
		})
	}
	if slot.saves != saves {
		t.Errorf("guards must not save, saves %d -> %d", saves, slot.saves)
	}
}

func TestBulkUpdateStatus_NoMatchesDoesNotSave(t *testing.T) {
	tr, slot := newTestTracker(t)
	mustAdd(t, tr, validInput("ada"))
	saves := slot.saves

	out, err := tr.BulkUpdateStatus(context.Background(), BulkStatusInput{IDs: []string{"ghost"}, Status: "on_hold"})
	if err != nil {
		t.Fatalf("BulkUpdateStatus failed: %v", err)
	}
	if out.Updated != 0 {
		t.Errorf("Updated = %d, want 0", out.Updated)
	}
	if slot.saves != saves {
		t.Errorf("saves %d -> %d, want unchanged", saves, slot.saves)
	}
}

func TestBulkDelete(t *testing.T) {
	tr, slot := newTestTracker(t)
	a := mustAdd(t, tr, validInput("ada"))
	b := mustAdd(t, tr, validInput("grace"))
	c := mustAdd(t, tr, validInput("linus"))

	out, err := tr.BulkDelete(context.Background(), BulkDeleteInput{IDs: []string{a, c, a}})
	if err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}
	if out.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", out.Deleted)
	}
	if len(slot.saved) != 1 || slot.saved[0].ID != b {
		t.Errorf("saved = %+v, want only %q", slot.saved, b)
	}
}

func TestBulkDelete_RequiresIDs(t *testing.T) {
	tr, _ := newTestTracker(t)
	mustAdd(t, tr, validInput("ada"))

	_, err := tr.BulkDelete(context.Background(), BulkDeleteInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
	if n := len(tr.Contacts()); n != 1 {
		t.Errorf("len(Contacts) = %d, want 1", n)
	}
}

package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestContact creates a contact with only required fields set.
func newTestContact(id string) contact.Contact {
	return contact.Contact{
		ID:          id,
		Name:        "Name " + id,
		Title:       "CTO",
		Company:     "Acme",
		LinkedInURL: "https://linkedin.com/in/" + id,
		Status:      contact.StatusToContact,
		CreatedAt:   1700000000000,
		UpdatedAt:   1700000000000,
	}
}

func TestListContacts_NeverSaved(t *testing.T) {
	db := openTestDB(t)

	contacts, present, err := ListContacts(context.Background(), db)
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if present {
		t.Error("present = true for a slot never written")
	}
	if contacts != nil {
		t.Errorf("contacts = %v, want nil", contacts)
	}
}

func TestReplaceContacts_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	full := newTestContact("01FULL")
	full.Industry = contact.Ptr(contact.IndustryMedicalDevices)
	full.ConnectionType = contact.Ptr(contact.ConnectionWarmIntro)
	full.DateMessaged = contact.Ptr("2025-06-01")
	full.FollowUpDate = contact.Ptr("2025-06-15")
	full.CallDate = contact.Ptr("2025-06-20T14:30")
	full.Notes = contact.Ptr("")
	full.ResponseReceived = true
	full.CallScheduled = true
	full.Status = contact.StatusCallScheduled
	full.UpdatedAt = 1700000005000

	want := []contact.Contact{newTestContact("01ZZZ"), full, newTestContact("01AAA")}

	if err := ReplaceContacts(ctx, db, want, 42); err != nil {
		t.Fatalf("ReplaceContacts failed: %v", err)
	}

	got, present, err := ListContacts(ctx, db)
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if !present {
		t.Fatal("present = false after save")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceContacts_EmptyIsPresent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := ReplaceContacts(ctx, db, []contact.Contact{newTestContact("a")}, 1); err != nil {
		t.Fatal(err)
	}
	if err := ReplaceContacts(ctx, db, nil, 2); err != nil {
		t.Fatal(err)
	}

	got, present, err := ListContacts(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if !present || len(got) != 0 {
		t.Errorf("present=%v len=%d, want saved empty collection", present, len(got))
	}

	n, err := CountContacts(ctx, db)
	if err != nil || n != 0 {
		t.Errorf("CountContacts = %d, %v", n, err)
	}
}

func TestReplaceContacts_DuplicateIDRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := ReplaceContacts(ctx, db, []contact.Contact{newTestContact("keep")}, 1); err != nil {
		t.Fatal(err)
	}

	dup := []contact.Contact{newTestContact("x"), newTestContact("x")}
	err := ReplaceContacts(ctx, db, dup, 2)
	if err != ErrUniqueConstraint {
		t.Fatalf("err = %v, want ErrUniqueConstraint", err)
	}

	got, _, err := ListContacts(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("failed replace must leave previous collection, got %v", got)
	}
}

func TestInsertUser_GetByEmail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u := &User{ID: "u1", Email: "Ada@Example.com", PasswordHash: "hash", CreatedAt: 5}
	if err := InsertUser(ctx, db, u); err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}

	got, err := GetUserByEmail(ctx, db, "ada@example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "u1" || got.Email != "ada@example.com" || got.PasswordHash != "hash" {
		t.Errorf("user = %+v", got)
	}

	err = InsertUser(ctx, db, &User{ID: "u2", Email: "ADA@example.com", PasswordHash: "h", CreatedAt: 6})
	if err != ErrUniqueConstraint {
		t.Errorf("duplicate email err = %v, want ErrUniqueConstraint", err)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetUserByEmail(context.Background(), db, "nobody@example.com")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetUserByEmail should return ErrNotFound, got: %v", err)
	}
}

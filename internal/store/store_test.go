package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/db"
)

// fixture covers every combination of present and absent optional fields
// that matters for round trips.
func fixture() []contact.Contact {
	bare := contact.Contact{
		ID:          "01BARE",
		Name:        "Bare",
		Title:       "Engineer",
		Company:     "Acme",
		LinkedInURL: "https://linkedin.com/in/bare",
		Status:      contact.StatusToContact,
		CreatedAt:   1700000000000,
		UpdatedAt:   1700000000000,
	}

	full := bare
	full.ID = "01FULL"
	full.Industry = contact.Ptr(contact.Industry("Aerospace"))
	full.ConnectionType = contact.Ptr(contact.ConnectionReferral)
	full.DateMessaged = contact.Ptr("2025-06-01")
	full.FollowUpDate = contact.Ptr("2025-06-15")
	full.CallDate = contact.Ptr("2025-06-20T14:30")
	full.Notes = contact.Ptr("line one\nline \"two\"")
	full.ResponseReceived = true
	full.CallScheduled = true
	full.Status = contact.StatusCallScheduled
	full.UpdatedAt = 1700000009999

	partial := bare
	partial.ID = "01PART"
	partial.Notes = contact.Ptr("")
	partial.FollowUpDate = contact.Ptr("2025-07-01T09:00:00Z")

	return []contact.Contact{full, bare, partial}
}

func roundTrip(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("%s: Load before save: %v", p.Name(), err)
	}
	if got != nil {
		t.Fatalf("%s: Load before save = %v, want nil (absent)", p.Name(), got)
	}

	want := fixture()
	if err := p.Save(ctx, want); err != nil {
		t.Fatalf("%s: Save: %v", p.Name(), err)
	}

	got, err = p.Load(ctx)
	if err != nil {
		t.Fatalf("%s: Load: %v", p.Name(), err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s: round trip mismatch (-want +got):\n%s", p.Name(), diff)
	}

	if err := p.Save(ctx, nil); err != nil {
		t.Fatalf("%s: Save empty: %v", p.Name(), err)
	}
	got, err = p.Load(ctx)
	if err != nil {
		t.Fatalf("%s: Load empty: %v", p.Name(), err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("%s: saved empty collection loaded as %v", p.Name(), got)
	}
}

func TestFileSlot_RoundTrip(t *testing.T) {
	roundTrip(t, NewFileSlot(filepath.Join(t.TempDir(), "outreach_contacts.json")))
}

func TestSQLiteSlot_RoundTrip(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	defer database.Close()

	roundTrip(t, NewSQLiteSlot(database))
}

func TestS3Slot_RoundTrip(t *testing.T) {
	slot, err := NewS3Slot(newFakeS3(), "crm", "")
	if err != nil {
		t.Fatal(err)
	}
	roundTrip(t, slot)
}

func TestFileSlot_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"oops`},
		{"wrong shape", `{"id": "x"}`},
		{"missing id", `[{"name": "x", "status": "to_contact"}]`},
		{"unknown status", `[{"id": "a", "status": "archived"}]`},
		{"duplicate id", `[{"id": "a", "status": "to_contact"}, {"id": "a", "status": "on_hold"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.json")
			if err := os.WriteFile(path, []byte(tt.body), 0600); err != nil {
				t.Fatal(err)
			}
			got, err := NewFileSlot(path).Load(context.Background())
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Load() err = %v, want ErrCorrupt", err)
			}
			if got != nil {
				t.Errorf("Load() = %v, want nil on corrupt data", got)
			}
		})
	}
}

func TestFileSlot_SaveIsAtomicAndPrivate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "c.json")
	slot := NewFileSlot(path)

	if err := slot.Save(context.Background(), fixture()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover temp files: %v", entries)
	}
}

func TestFileSlot_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slot := NewFileSlot(filepath.Join(t.TempDir(), "c.json"))
	if err := slot.Save(ctx, fixture()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save err = %v, want context.Canceled", err)
	}
}

func TestS3Slot_RequiresBucket(t *testing.T) {
	if _, err := NewS3Slot(newFakeS3(), "", "k"); err == nil {
		t.Error("expected error without bucket")
	}
}

func TestS3Slot_GetErrorIsReturned(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("access denied")
	slot, _ := NewS3Slot(fake, "crm", "k")

	if _, err := slot.Load(context.Background()); err == nil || errors.Is(err, ErrCorrupt) {
		t.Errorf("Load err = %v, want transport error", err)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	cfg := config.DefaultConfig()
	p, err := New(ctx, cfg, baseDir, database)
	if err != nil || p.Name() != "sqlite" {
		t.Fatalf("default backend = %v, %v; want sqlite", p, err)
	}

	cfg.Storage.Backend = config.BackendFile
	p, err = New(ctx, cfg, baseDir, nil)
	if err != nil || p.Name() != "file" {
		t.Fatalf("file backend = %v, %v", p, err)
	}
	if got := p.(*FileSlot).Path(); got != filepath.Join(baseDir, "outreach_contacts.json") {
		t.Errorf("file path = %s", got)
	}

	cfg.Storage.Backend = config.BackendSQLite
	if _, err := New(ctx, cfg, baseDir, nil); err == nil {
		t.Error("sqlite without db should fail")
	}

	cfg.Storage.Backend = "mongo"
	if _, err := New(ctx, cfg, baseDir, nil); err == nil {
		t.Error("unknown backend should fail")
	}
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

package ops

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
)

const importHeader = `{"_outreach_export":true,"schema_version":"1.0","exported_at":1}`

func record(id, name, status string) string {
	return `{"id":"` + id + `","name":"` + name + `","title":"T","company":"C",` +
		`"linkedin_url":"https://linkedin.com/in/` + id + `","status":"` + status + `",` +
		`"response_received":false,"call_scheduled":false,"created_at":10,"updated_at":20}`
}

func writeImport(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "import.jsonl")
	writeFile(t, path, strings.Join(lines, "\n")+"\n")
	return path
}

func TestImport_ModeError_Atomic(t *testing.T) {
	dir := t.TempDir()
	tr, slot := newExportTracker(t, dir)
	existing := mustAdd(t, tr, validInput("ada"))
	saves := slot.saves

	path := writeImport(t, dir, importHeader,
		record("01NEW", "Grace", "to_contact"),
		record(existing, "Ada Again", "on_hold"),
	)

	out, err := tr.Import(context.Background(), ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 0 || len(out.Errors) != 1 || out.Errors[0].Code != "ID_COLLISION" {
		t.Errorf("output = %+v", out)
	}
	if out.Errors[0].Line != 3 {
		t.Errorf("Line = %d, want 3", out.Errors[0].Line)
	}
	if n := len(tr.Contacts()); n != 1 {
		t.Errorf("len(Contacts) = %d, want 1 (nothing imported)", n)
	}
	if slot.saves != saves {
		t.Errorf("failed import must not save")
	}
}

func TestImport_ModeError_ParseErrorsAbort(t *testing.T) {
	dir := t.TempDir()
	tr, _ := newExportTracker(t, dir)

	path := writeImport(t, dir, importHeader,
		record("01A", "Ada", "to_contact"),
		`{broken`,
		record("01B", "", "to_contact"),
		record("01C", "Linus", "ghosted"),
		record("01A", "Ada Dup", "to_contact"),
	)

	out, err := tr.Import(context.Background(), ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	codes := make([]string, len(out.Errors))
	for i, e := range out.Errors {
		codes[i] = e.Code
	}
	want := "PARSE_ERROR,INVALID_RECORD,INVALID_RECORD,DUPLICATE_ID"
	if got := strings.Join(codes, ","); got != want {
		t.Errorf("codes = %s, want %s", got, want)
	}
	if n := len(tr.Contacts()); n != 0 {
		t.Errorf("len(Contacts) = %d, want 0", n)
	}
}

func TestImport_ModeReplace(t *testing.T) {
	dir := t.TempDir()
	tr, _ := newExportTracker(t, dir)
	first := mustAdd(t, tr, validInput("ada"))
	mustAdd(t, tr, validInput("grace"))

	path := writeImport(t, dir, importHeader,
		record(first, "Ada Replaced", "on_hold"),
		record("01NEW", "Linus", "to_contact"),
		`not json`,
	)

	out, err := tr.Import(context.Background(), ImportInput{Path: path, Mode: ImportModeReplace})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 1 || out.Replaced != 1 || out.Skipped != 1 {
		t.Errorf("output = %+v", out)
	}

	got := tr.Contacts()
	if len(got) != 3 {
		t.Fatalf("len(Contacts) = %d, want 3", len(got))
	}
	if got[0].ID != first || got[0].Name != "Ada Replaced" || got[0].Status != contact.StatusOnHold {
		t.Errorf("replaced in place = %+v", got[0])
	}
	if got[2].ID != "01NEW" || got[2].CreatedAt != 10 || got[2].UpdatedAt != 20 {
		t.Errorf("appended = %+v", got[2])
	}
}

func TestImport_ModeSkip(t *testing.T) {
	dir := t.TempDir()
	tr, _ := newExportTracker(t, dir)
	first := mustAdd(t, tr, validInput("ada"))

	path := writeImport(t, dir, importHeader,
		record(first, "Ada Replaced", "on_hold"),
		record("01NEW", "Linus", "to_contact"),
	)

	out, err := tr.Import(context.Background(), ImportInput{Path: path, Mode: ImportModeSkip})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 1 || out.Skipped != 1 || out.Replaced != 0 {
		t.Errorf("output = %+v", out)
	}
	got, _ := tr.Fetch(context.Background(), FetchInput{ID: first})
	if got.Name != "ada" {
		t.Errorf("skipped contact changed: %q", got.Name)
	}
}

func TestImport_InputErrors(t *testing.T) {
	dir := t.TempDir()
	tr, _ := newExportTracker(t, dir)

	tests := []struct {
		name  string
		input ImportInput
		code  errors.ErrorCode
	}{
		{"missing path", ImportInput{}, errors.ErrInvalidRequest},
		{"bad mode", ImportInput{Path: filepath.Join(dir, "x.jsonl"), Mode: "rename"}, errors.ErrInvalidRequest},
		{"missing file", ImportInput{Path: filepath.Join(dir, "missing.jsonl")}, errors.ErrFileNotFound},
		{"wrong extension", ImportInput{Path: filepath.Join(dir, "x.json")}, errors.ErrInvalidRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.Import(context.Background(), tc.input)
			if !errors.Is(err, tc.code) {
				t.Errorf("expected %s, got: %v", tc.code, err)
			}
		})
	}
}

func TestImport_UnsupportedSchema(t *testing.T) {
	dir := t.TempDir()
	tr, _ := newExportTracker(t, dir)

	path := writeImport(t, dir,
		`{"_outreach_export":true,"schema_version":"2.0","exported_at":1}`,
		record("01A", "Ada", "to_contact"),
	)
	_, err := tr.Import(context.Background(), ImportInput{Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

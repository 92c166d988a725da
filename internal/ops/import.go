package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/tracker"
)

// ImportMode controls what happens when an imported id already exists.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on any collision or bad line, import nothing
	ImportModeReplace ImportMode = "replace" // overwrite the existing contact in place
	ImportModeSkip    ImportMode = "skip"    // keep the existing contact
)

// maxLineBytes bounds one JSONL line; long notes fit comfortably.
const maxLineBytes = 4 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError describes one rejected line or record.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type importRecord struct {
	line    int
	contact contact.Contact
}

// Import reads a JSONL export file into the collection. Imported contacts
// keep their ids and timestamps.
func (t *Tracker) Import(ctx context.Context, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, t.cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.OutreachError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors, err := parseExportFile(ctx, file)
	if err != nil {
		return nil, err
	}
	if len(records) > MaxImportSize {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file has %d contacts; at most %d are accepted", len(records), MaxImportSize))
	}

	out := &ImportOutput{Errors: []ImportError{}}

	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		out.Errors = parseErrors
		return out, nil
	}
	out.Errors = append(out.Errors, parseErrors...)
	out.Skipped = len(parseErrors)

	t.mu.Lock()
	defer t.mu.Unlock()

	merged := contact.CloneAll(t.state.Contacts)
	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ID] = i
	}

	if input.Mode == ImportModeError {
		var collisions []ImportError
		for _, rec := range records {
			if _, exists := index[rec.contact.ID]; exists {
				collisions = append(collisions, ImportError{
					Line:    rec.line,
					ID:      rec.contact.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("contact with id %q already exists", rec.contact.ID),
				})
			}
		}
		if len(collisions) > 0 {
			out.Errors = collisions
			return out, nil
		}
	}

	for _, rec := range records {
		i, exists := index[rec.contact.ID]
		switch {
		case !exists:
			index[rec.contact.ID] = len(merged)
			merged = append(merged, rec.contact)
			out.Imported++
		case input.Mode == ImportModeReplace:
			merged[i] = rec.contact
			out.Replaced++
		default:
			out.Skipped++
		}
	}

	if out.Imported+out.Replaced == 0 {
		return out, nil
	}
	if err := t.commit(ctx, tracker.ReplaceContacts{Contacts: merged}); err != nil {
		return nil, err
	}
	t.log.Info(ctx, "contacts imported",
		"path", input.Path, "mode", string(input.Mode),
		"imported", out.Imported, "replaced", out.Replaced, "skipped", out.Skipped)

	return out, nil
}

// parseExportFile reads every contact line. Header lines are skipped;
// malformed or invalid lines become ImportErrors.
func parseExportFile(ctx context.Context, r io.Reader) ([]importRecord, []ImportError, error) {
	var records []importRecord
	var parseErrors []ImportError
	seen := map[string]int{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if ctx.Err() != nil {
			return nil, nil, errors.NewCancelled("import")
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec exportRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		if rec.OutreachExport {
			var header ExportHeader
			if err := json.Unmarshal([]byte(line), &header); err == nil && !supportedSchema(header.SchemaVersion) {
				return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported export schema_version %q", header.SchemaVersion))
			}
			continue
		}

		c := rec.Contact
		if msg := checkImported(&c); msg != "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      c.ID,
				Code:    "INVALID_RECORD",
				Message: msg,
			})
			continue
		}
		if first, dup := seen[c.ID]; dup {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      c.ID,
				Code:    "DUPLICATE_ID",
				Message: fmt.Sprintf("id already used on line %d", first),
			})
			continue
		}
		seen[c.ID] = lineNum
		records = append(records, importRecord{line: lineNum, contact: c})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum + 1,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors, nil
}

// checkImported returns why c cannot join the collection, or "".
func checkImported(c *contact.Contact) string {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return "missing id field"
	case strings.TrimSpace(c.Name) == "":
		return "missing name field"
	case !c.Status.Valid():
		return fmt.Sprintf("unknown status %q", c.Status)
	case c.UpdatedAt < c.CreatedAt:
		return "updated_at is before created_at"
	}
	return ""
}

func supportedSchema(version string) bool {
	return version == "" || strings.HasPrefix(version, "1.")
}

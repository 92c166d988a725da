// Package store persists the contact collection as a single slot: one
// document (file or object) or one table, always written whole.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/contact"
)

// ErrCorrupt wraps a slot whose contents cannot be decoded. Callers treat
// it like an absent slot and start empty.
var ErrCorrupt = errors.New("corrupt contacts slot")

// Provider loads and saves the whole collection.
type Provider interface {
	// Load returns nil, nil when the slot has never been written.
	Load(ctx context.Context) ([]contact.Contact, error)
	Save(ctx context.Context, contacts []contact.Contact) error
	Name() string
}

// New returns the provider selected by cfg.Storage.Backend. db is used by
// the sqlite backend and may be nil for the others.
func New(ctx context.Context, cfg *config.Config, baseDir string, db *sql.DB) (Provider, error) {
	switch cfg.Storage.Backend {
	case "", config.BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite storage requires a database")
		}
		return NewSQLiteSlot(db), nil
	case config.BackendFile:
		name := cfg.Storage.FileName
		if name == "" {
			name = config.DefaultConfig().Storage.FileName
		}
		return NewFileSlot(filepath.Join(baseDir, name)), nil
	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Slot(client, cfg.Storage.S3.Bucket, cfg.Storage.S3.Key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// decode parses a stored document and checks it is a usable collection.
func decode(data []byte) ([]contact.Contact, error) {
	var contacts []contact.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	if err := check(contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func encode(contacts []contact.Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return json.Marshal(contacts)
}

// check rejects collections that break record invariants. Bad data is
// discarded wholesale rather than partially recovered.
func check(contacts []contact.Contact) error {
	seen := make(map[string]bool, len(contacts))
	for i := range contacts {
		c := &contacts[i]
		if c.ID == "" {
			return fmt.Errorf("%w: record %d has no id", ErrCorrupt, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrCorrupt, c.ID)
		}
		seen[c.ID] = true
		if !c.Status.Valid() {
			return fmt.Errorf("%w: record %s has unknown status %q", ErrCorrupt, c.ID, c.Status)
		}
	}
	return nil
}

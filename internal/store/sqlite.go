package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/db"
)

// SQLiteSlot keeps the collection in the contacts table.
type SQLiteSlot struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSlot returns a slot over an initialized database (see db.Init).
func NewSQLiteSlot(database *sql.DB) *SQLiteSlot {
	return &SQLiteSlot{db: database, now: time.Now}
}

func (s *SQLiteSlot) Name() string { return "sqlite" }

func (s *SQLiteSlot) Load(ctx context.Context) ([]contact.Contact, error) {
	contacts, present, err := db.ListContacts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	if !present {
		return nil, nil
	}
	if err := check(contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, contacts []contact.Contact) error {
	if err := db.ReplaceContacts(ctx, s.db, contacts, s.now().UnixMilli()); err != nil {
		return fmt.Errorf("save contacts: %w", err)
	}
	return nil
}

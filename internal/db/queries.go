package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.OutreachError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// savedAtKey marks that the contacts slot has been written at least once,
// so an empty collection can be told apart from a slot never saved.
const savedAtKey = "contacts_saved_at"

const contactColumns = `
	id, name, title, company, industry, linkedin_url, date_messaged,
	status, follow_up_date, notes, connection_type, response_received,
	call_scheduled, call_date, created_at, updated_at`

// ListContacts returns the stored collection in saved order.
// The bool is false when the slot has never been written.
func ListContacts(ctx context.Context, db *sql.DB) ([]contact.Contact, bool, error) {
	var savedAt string
	err := db.QueryRowContext(ctx, `SELECT value FROM slot_meta WHERE key = ?`, savedAtKey).Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}

	rows, err := db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY position ASC`)
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	defer rows.Close()

	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, false, errors.NewInternal(err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, errors.NewInternal(err)
	}

	return contacts, true, nil
}

// ReplaceContacts overwrites the stored collection in one transaction.
func ReplaceContacts(ctx context.Context, db *sql.DB, contacts []contact.Contact, savedAt int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return errors.NewInternal(err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (position,`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for i := range contacts {
		c := &contacts[i]
		_, err := stmt.ExecContext(ctx,
			i, c.ID, c.Name, c.Title, c.Company, toNullString(industryPtr(c.Industry)),
			c.LinkedInURL, toNullString(c.DateMessaged), string(c.Status),
			toNullString(c.FollowUpDate), toNullString(c.Notes),
			toNullString(connectionPtr(c.ConnectionType)),
			c.ResponseReceived, c.CallScheduled, toNullString(c.CallDate),
			c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return ErrUniqueConstraint
			}
			return errors.NewInternal(err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO slot_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, savedAtKey, strconv.FormatInt(savedAt, 10)); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// CountContacts returns the number of stored contacts.
func CountContacts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scanContact scans a single row into a Contact.
func scanContact(rows *sql.Rows) (*contact.Contact, error) {
	var c contact.Contact
	var status string
	var industry, dateMessaged, followUp, notes, connType, callDate sql.NullString

	err := rows.Scan(
		&c.ID, &c.Name, &c.Title, &c.Company, &industry, &c.LinkedInURL,
		&dateMessaged, &status, &followUp, &notes, &connType,
		&c.ResponseReceived, &c.CallScheduled, &callDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = contact.Status(status)
	if industry.Valid {
		c.Industry = contact.Ptr(contact.Industry(industry.String))
	}
	if connType.Valid {
		c.ConnectionType = contact.Ptr(contact.ConnectionType(connType.String))
	}
	c.DateMessaged = fromNullString(dateMessaged)
	c.FollowUpDate = fromNullString(followUp)
	c.Notes = fromNullString(notes)
	c.CallDate = fromNullString(callDate)

	return &c, nil
}

func industryPtr(i *contact.Industry) *string {
	if i == nil {
		return nil
	}
	s := string(*i)
	return &s
}

func connectionPtr(ct *contact.ConnectionType) *string {
	if ct == nil {
		return nil
	}
	s := string(*ct)
	return &s
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

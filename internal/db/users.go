package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/outreach/internal/errors"
)

// ErrUserNotFound is returned when no account matches an email.
var ErrUserNotFound = &errors.OutreachError{
	Code:    errors.ErrNotFound,
	Status:  404,
	Message: "user not found",
}

// User is a stored account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    int64
}

// InsertUser stores a new account. Emails are compared case-insensitively;
// a duplicate returns ErrUniqueConstraint.
func InsertUser(ctx context.Context, db *sql.DB, u *User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, strings.ToLower(u.Email), u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetUserByEmail returns the account for email, or ErrUserNotFound.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*User, error) {
	var u User
	err := db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &u, nil
}

// Package auth implements sign-up, sign-in and session verification for
// the web UI. Contact data never depends on who is signed in.
package auth

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/db"
	"github.com/hpungsan/outreach/internal/errors"
)

// Messages shown to the user verbatim.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
	MsgPasswordTooShort   = "Password should be at least 6 characters"
	MsgInvalidEmail       = "Unable to validate email address: invalid format"
	MsgInvalidSession     = "Invalid or expired session"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims are the session token claims. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Session is returned by SignUp and SignIn.
type Session struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service authenticates users stored in the SQLite users table.
type Service struct {
	db       *sql.DB
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	hashCost int
}

// NewService returns an auth service. A signing secret is required.
func NewService(database *sql.DB, cfg config.AuthConfig) (*Service, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.NewInvalidRequest("auth.secret is not configured")
	}
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		db:       database,
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}, nil
}

// SignUp registers a new account and returns a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, errors.NewAuthFailed(MsgInvalidEmail)
	}
	if len(password) < MinPasswordLen {
		return nil, errors.NewAuthFailed(MsgPasswordTooShort)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	user := &db.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UnixMilli(),
	}
	if err := db.InsertUser(ctx, s.db, user); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewAuthFailed(MsgAlreadyRegistered)
		}
		return nil, err
	}

	return s.issue(user)
}

// SignIn checks credentials and returns a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := db.GetUserByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NewAuthFailed(MsgInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewAuthFailed(MsgInvalidCredentials)
	}

	return s.issue(user)
}

// Verify checks a session token and returns its claims.
func (s *Service) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, errors.NewAuthFailed(MsgInvalidSession)
	}
	return claims, nil
}

func (s *Service) issue(user *db.User) (*Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: user.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &Session{
		AccessToken: signed,
		UserID:      user.ID,
		Email:       user.Email,
		ExpiresAt:   expires,
	}, nil
}

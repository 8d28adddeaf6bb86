// Package auth implements user registration and login over the users table.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	pkgauth "github.com/coursemind/coursemind/pkg/auth"
	"github.com/coursemind/coursemind/pkg/uuid"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

const minPasswordLen = 8

// Service handles user accounts.
type Service struct {
	db *sql.DB
}

// NewService creates an auth service over db.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Register creates a user and returns its id.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return "", ErrWeakPassword
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	id := uuid.NewV7().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		id, email, hash,
	)
	if err != nil {
		// modernc/sqlite reports unique violations in the error text.
		if strings.Contains(err.Error(), "UNIQUE") {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("register: %w", err)
	}
	return id, nil
}

// Login verifies credentials and returns a signed JWT.
// Unknown email and wrong password return the same error so responses do
// not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		id   string
		hash string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash FROM users WHERE email = ?", email,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if !pkgauth.VerifyPassword(hash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := pkgauth.GenerateJWT(id)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}

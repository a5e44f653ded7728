// Package auth registers users and verifies their credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

type CredentialService struct {
	users ports.UserRepository
	cost  int
}

func NewCredentialService(users ports.UserRepository, cost int) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &CredentialService{users: users, cost: cost}
}

// Register hashes password and stores a new user. Emails are not required
// to be unique.
func (s *CredentialService) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", &core.ValidationError{Field: "email", Err: core.ErrEmptyEmail}
	}
	if password == "" {
		return "", &core.ValidationError{Field: "password", Err: core.ErrEmptyPassword}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		// bcrypt rejects passwords longer than 72 bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", &core.ValidationError{Field: "password", Err: err}
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, core.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return "", core.Persistence("create user", err)
	}
	return id, nil
}

// Verify returns the user whose email and password match, or nil when
// either does not.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*core.User, error) {
	u, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, core.Persistence("find user by email", err)
	}
	if u == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return u, nil
}

// UserByID re-reads a user, returning nil when the id is unknown.
func (s *CredentialService) UserByID(ctx context.Context, id string) (*core.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, core.Persistence("find user by id", err)
	}
	return u, nil
}

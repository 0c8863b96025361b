package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Restricted accounts
// cannot log in.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if user.Restricted {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a new account. Only student and educator accounts can
// self-register; admin accounts are provisioned out of band.
func (s *Service) Register(ctx context.Context, email, name, password, rawRole string) (*User, error) {
	role, err := identity.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	if role == identity.RoleAdmin {
		return nil, errors.New("auth: admin accounts cannot self-register")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, normalizeEmail(email), strings.TrimSpace(name), string(hash), role)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

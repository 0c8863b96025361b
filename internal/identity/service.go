package identity

import (
	"context"
	"strings"
)

// Service resolves verified claims to durable identity records.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Resolve looks up the identity record for a verified claim's email. A
// missing record is a legitimate outcome (the account may have been removed
// after the token was issued) and surfaces as shared.ErrNotFound.
func (s *Service) Resolve(ctx context.Context, email string) (*Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	return s.repo.FindByEmail(ctx, email)
}

// List returns all identities for admin views.
func (s *Service) List(ctx context.Context) ([]Identity, error) {
	return s.repo.List(ctx)
}

// SetRestricted toggles the restriction flag on an identity.
func (s *Service) SetRestricted(ctx context.Context, id int64, restricted bool) error {
	return s.repo.SetRestricted(ctx, id, restricted)
}

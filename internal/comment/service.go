package comment

import (
	"context"
	"strings"
	"time"

	"github.com/skillport/skillport/internal/identity"
)

// Service handles comment business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListByCourse returns a course's discussion thread.
func (s *Service) ListByCourse(ctx context.Context, courseID string) ([]Comment, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

// Post stores a comment authored by an already-authorized identity. The
// handler confirms entitlement before this runs; no record is created on a
// rejected request.
func (s *Service) Post(ctx context.Context, author *identity.Identity, courseID, body string) (*Comment, error) {
	c := &Comment{
		CourseID:   courseID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Body:       strings.TrimSpace(body),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

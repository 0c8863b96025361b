package course

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var categoryCaser = cases.Title(language.English)

// Service handles course business logic. Authorization happens in the
// handlers through the facade; the service trusts its caller.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Browse returns the public catalog.
func (s *Service) Browse(ctx context.Context, search string) ([]Course, error) {
	return s.repo.ListPublished(ctx, strings.TrimSpace(search))
}

// Get fetches a single course.
func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOwn returns the educator's authored courses, drafts included.
func (s *Service) ListOwn(ctx context.Context, educatorID int64) ([]Course, error) {
	return s.repo.ListByEducator(ctx, educatorID)
}

// Create stores a new course for the educator.
func (s *Service) Create(ctx context.Context, educatorID int64, in Input) (*Course, error) {
	now := time.Now().UTC()
	c := &Course{
		ID:          uuid.NewString(),
		EducatorID:  educatorID,
		Title:       strings.TrimSpace(in.Title),
		Category:    normalizeCategory(in.Category),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		Published:   in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update rewrites a course's editable fields.
func (s *Service) Update(ctx context.Context, c *Course, in Input) (*Course, error) {
	c.Title = strings.TrimSpace(in.Title)
	c.Category = normalizeCategory(in.Category)
	c.Description = strings.TrimSpace(in.Description)
	c.PriceCents = in.PriceCents
	c.Published = in.Published
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a course and its dependent records.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeCategory(raw string) string {
	return categoryCaser.String(strings.ToLower(strings.TrimSpace(raw)))
}

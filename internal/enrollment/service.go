package enrollment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/identity"
)

// ErrUnpublished is returned when a student tries to buy a draft course.
var ErrUnpublished = errors.New("enrollment: course not published")

// ReceiptEnqueuer hands the receipt email off to the background worker.
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, to, courseTitle string, priceCents int64) error
}

// CourseGetter fetches the course being purchased.
type CourseGetter interface {
	Get(ctx context.Context, id string) (*course.Course, error)
}

// Service handles purchase business logic.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	courses  CourseGetter
	receipts ReceiptEnqueuer
}

// NewService builds a Service instance. receipts may be nil in tests.
func NewService(logger *slog.Logger, repo RepositoryPort, courses CourseGetter, receipts ReceiptEnqueuer) *Service {
	return &Service{logger: logger, repo: repo, courses: courses, receipts: receipts}
}

// Purchase records an entitlement for the student. Buying a course twice is
// idempotent: the original entitlement stands and no second receipt is
// sent. The caller has already confirmed the student role.
func (s *Service) Purchase(ctx context.Context, student *identity.Identity, courseID string) (*Purchase, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.Published {
		return nil, ErrUnpublished
	}

	p := &Purchase{
		UserID:     student.ID,
		CourseID:   c.ID,
		PriceCents: c.PriceCents,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	if created && s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, student.Email, c.Title, c.PriceCents); err != nil {
			// The entitlement is durable; a lost receipt email is not worth
			// failing the purchase over.
			s.logger.Warn("enqueue receipt", slog.Any("error", err))
		}
	}
	return p, nil
}

// History returns the student's purchases.
func (s *Service) History(ctx context.Context, userID int64) ([]Purchase, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CountByCourse reports enrollment volume for a course.
func (s *Service) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	return s.repo.CountByCourse(ctx, courseID)
}

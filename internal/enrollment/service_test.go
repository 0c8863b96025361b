package enrollment

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

type memoryRepo struct {
	purchases []Purchase
	nextID    int64
}

func (r *memoryRepo) Create(ctx context.Context, p *Purchase) (bool, error) {
	for _, existing := range r.purchases {
		if existing.UserID == p.UserID && existing.CourseID == p.CourseID {
			return false, nil
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.purchases = append(r.purchases, *p)
	return true, nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID int64) ([]Purchase, error) {
	var out []Purchase
	for _, p := range r.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	for _, p := range r.purchases {
		if p.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

type courseCatalog map[string]*course.Course

func (c courseCatalog) Get(ctx context.Context, id string) (*course.Course, error) {
	found, ok := c[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return found, nil
}

type receiptRecorder struct {
	sent []string
}

func (r *receiptRecorder) EnqueueReceipt(ctx context.Context, to, courseTitle string, priceCents int64) error {
	r.sent = append(r.sent, to)
	return nil
}

func newTestService(catalog courseCatalog) (*Service, *memoryRepo, *receiptRecorder) {
	repo := &memoryRepo{}
	receipts := &receiptRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, catalog, receipts), repo, receipts
}

func student() *identity.Identity {
	return &identity.Identity{ID: 11, Email: "s@x.com", Role: identity.RoleStudent}
}

func TestPurchase(t *testing.T) {
	svc, repo, receipts := newTestService(courseCatalog{
		"c1": {ID: "c1", Title: "Intro", PriceCents: 4900, Published: true},
	})

	p, err := svc.Purchase(context.Background(), student(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", p.CourseID)
	assert.Equal(t, int64(4900), p.PriceCents)
	assert.Len(t, repo.purchases, 1)
	assert.Equal(t, []string{"s@x.com"}, receipts.sent)
}

func TestPurchaseIsIdempotent(t *testing.T) {
	svc, repo, receipts := newTestService(courseCatalog{
		"c1": {ID: "c1", Title: "Intro", PriceCents: 4900, Published: true},
	})
	ctx := context.Background()

	_, err := svc.Purchase(ctx, student(), "c1")
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, student(), "c1")
	require.NoError(t, err)

	assert.Len(t, repo.purchases, 1, "a repeat purchase must not create a second entitlement")
	assert.Len(t, receipts.sent, 1, "a repeat purchase must not send a second receipt")
}

func TestPurchaseUnknownCourse(t *testing.T) {
	svc, _, _ := newTestService(courseCatalog{})

	_, err := svc.Purchase(context.Background(), student(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseDraftCourse(t *testing.T) {
	svc, repo, _ := newTestService(courseCatalog{
		"c1": {ID: "c1", Title: "Draft", Published: false},
	})

	_, err := svc.Purchase(context.Background(), student(), "c1")
	assert.ErrorIs(t, err, ErrUnpublished)
	assert.Empty(t, repo.purchases)
}

func TestHistoryAndCount(t *testing.T) {
	svc, repo, _ := newTestService(courseCatalog{})
	now := time.Now()
	repo.purchases = []Purchase{
		{ID: 1, UserID: 11, CourseID: "c1", CreatedAt: now},
		{ID: 2, UserID: 12, CourseID: "c1", CreatedAt: now},
		{ID: 3, UserID: 11, CourseID: "c2", CreatedAt: now},
	}

	history, err := svc.History(context.Background(), 11)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	count, err := svc.CountByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

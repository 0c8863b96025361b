package enrollment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access methods for purchases.
type RepositoryPort interface {
	Create(ctx context.Context, p *Purchase) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]Purchase, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a purchase. A repeat purchase of the same course is a
// no-op; the bool reports whether a new row was written.
func (r *Repository) Create(ctx context.Context, p *Purchase) (bool, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO purchases (user_id, course_id, price_cents, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, course_id) DO NOTHING
		 RETURNING id`,
		p.UserID, p.CourseID, p.PriceCents, p.CreatedAt)
	if err := row.Scan(&p.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByUser returns a student's purchase history, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Purchase, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, course_id, price_cents, created_at FROM purchases
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.PriceCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// CountByCourse reports how many students hold an entitlement to a course.
func (r *Repository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE course_id = $1`, courseID).Scan(&count)
	return count, err
}

var _ RepositoryPort = (*Repository)(nil)

package course

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillport/skillport/internal/platform/db"
	"github.com/skillport/skillport/internal/shared"
)

// RepositoryPort defines data access methods for courses.
type RepositoryPort interface {
	ListPublished(ctx context.Context, search string) ([]Course, error)
	ListByEducator(ctx context.Context, educatorID int64) ([]Course, error)
	GetByID(ctx context.Context, id string) (*Course, error)
	Create(ctx context.Context, c *Course) error
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const courseColumns = `id, educator_id, title, category, description, price_cents, published, created_at, updated_at`

// ListPublished returns the public catalog, optionally filtered by a title
// or category search term.
func (r *Repository) ListPublished(ctx context.Context, search string) ([]Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE published ORDER BY created_at DESC`
	args := []any{}
	if search != "" {
		query = `SELECT ` + courseColumns + ` FROM courses
			WHERE published AND (title ILIKE '%' || $1 || '%' OR category ILIKE '%' || $1 || '%')
			ORDER BY created_at DESC`
		args = append(args, search)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// ListByEducator returns every course authored by the educator, drafts
// included.
func (r *Repository) ListByEducator(ctx context.Context, educatorID int64) ([]Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE educator_id = $1 ORDER BY created_at DESC`, educatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// GetByID fetches a single course.
func (r *Repository) GetByID(ctx context.Context, id string) (*Course, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	var c Course
	if err := scanCourse(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course.
func (r *Repository) Create(ctx context.Context, c *Course) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO courses (id, educator_id, title, category, description, price_cents, published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.EducatorID, c.Title, c.Category, c.Description, c.PriceCents, c.Published, c.CreatedAt, c.UpdatedAt)
	return err
}

// Update rewrites the educator-editable fields.
func (r *Repository) Update(ctx context.Context, c *Course) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET title = $2, category = $3, description = $4, price_cents = $5, published = $6, updated_at = $7
		 WHERE id = $1`,
		c.ID, c.Title, c.Category, c.Description, c.PriceCents, c.Published, c.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a course together with its comments and entitlement
// records in one transaction.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE course_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE course_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func scanCourse(row pgx.Row, c *Course) error {
	return row.Scan(&c.ID, &c.EducatorID, &c.Title, &c.Category, &c.Description, &c.PriceCents, &c.Published, &c.CreatedAt, &c.UpdatedAt)
}

func scanCourses(rows pgx.Rows) ([]Course, error) {
	var courses []Course
	for rows.Next() {
		var c Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)

package comment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access methods for comments.
type RepositoryPort interface {
	ListByCourse(ctx context.Context, courseID string) ([]Comment, error)
	Create(ctx context.Context, c *Comment) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByCourse returns a course's comments, oldest first.
func (r *Repository) ListByCourse(ctx context.Context, courseID string) ([]Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.course_id, c.author_id, u.name, c.body, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.course_id = $1 ORDER BY c.created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CourseID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a comment.
func (r *Repository) Create(ctx context.Context, c *Comment) error {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO comments (course_id, author_id, body, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.CourseID, c.AuthorID, c.Body, c.CreatedAt)
	return row.Scan(&c.ID)
}

var _ RepositoryPort = (*Repository)(nil)

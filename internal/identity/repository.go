package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillport/skillport/internal/shared"
)

// RepositoryPort defines data access methods for identity records.
type RepositoryPort interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	List(ctx context.Context) ([]Identity, error)
	SetRestricted(ctx context.Context, id int64, restricted bool) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByEmail loads the full identity record: the user row, the course ids
// the user authored, and the entitlement rows the user purchased. Email is
// the authoritative lookup key; the numeric id in a token is informational.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	var (
		ident   Identity
		rawRole string
	)
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, name, role, restricted, created_at, updated_at FROM users WHERE email = $1`, email)
	if err := row.Scan(&ident.ID, &ident.Email, &ident.Name, &rawRole, &ident.Restricted, &ident.CreatedAt, &ident.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	role, err := ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	ident.Role = role

	switch role {
	case RoleEducator:
		owned, err := r.ownedCourseIDs(ctx, ident.ID)
		if err != nil {
			return nil, err
		}
		ident.OwnedCourseIDs = owned
	case RoleStudent:
		entitlements, err := r.entitlements(ctx, ident.ID)
		if err != nil {
			return nil, err
		}
		ident.Entitlements = entitlements
	}

	return &ident, nil
}

// List returns all identities ordered by id.
func (r *Repository) List(ctx context.Context) ([]Identity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, role, restricted, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []Identity
	for rows.Next() {
		var (
			ident   Identity
			rawRole string
		)
		if err := rows.Scan(&ident.ID, &ident.Email, &ident.Name, &rawRole, &ident.Restricted, &ident.CreatedAt, &ident.UpdatedAt); err != nil {
			return nil, err
		}
		role, err := ParseRole(rawRole)
		if err != nil {
			return nil, err
		}
		ident.Role = role
		identities = append(identities, ident)
	}
	return identities, rows.Err()
}

// SetRestricted toggles the soft-restriction flag. Restriction is enforced
// on the very next authorization check; nothing is cached.
func (r *Repository) SetRestricted(ctx context.Context, id int64, restricted bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET restricted = $2, updated_at = $3 WHERE id = $1`, id, restricted, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) ownedCourseIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM courses WHERE educator_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) entitlements(ctx context.Context, userID int64) ([]Entitlement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id, created_at FROM purchases WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entitlements []Entitlement
	for rows.Next() {
		var e Entitlement
		if err := rows.Scan(&e.CourseID, &e.AcquiredAt); err != nil {
			return nil, err
		}
		entitlements = append(entitlements, e)
	}
	return entitlements, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)

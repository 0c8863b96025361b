package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, email, name, passwordHash string, role identity.Role) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches an account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var (
		user    User
		rawRole string
	)
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, restricted, created_at, updated_at FROM users WHERE email = $1`, email)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &rawRole, &user.Restricted, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	role, err := identity.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// Create inserts a new account. A duplicate email maps to shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, email, name, passwordHash string, role identity.Role) (*User, error) {
	now := time.Now().UTC()
	user := User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, role, restricted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5, $5)
		 RETURNING id`,
		email, name, passwordHash, string(role), now)
	if err := row.Scan(&user.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)

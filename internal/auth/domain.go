package auth

import (
	"time"

	"github.com/skillport/skillport/internal/identity"
)

// User represents an account row as the auth module sees it.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         identity.Role
	Restricted   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package identity

import (
	"fmt"
	"time"
)

// Role is the closed set of platform roles. Unknown role strings never
// parse, so an unrecognized value can never satisfy a role comparison
// downstream.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEducator Role = "educator"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent, RoleEducator, RoleAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("identity: unknown role %q", raw)
}

// Entitlement records a student's purchased right to access a course.
type Entitlement struct {
	CourseID   string
	AcquiredAt time.Time
}

// Identity is the durable record of a platform participant. Ownership is
// populated for educators, entitlements for students; the two are mutually
// exclusive by role.
type Identity struct {
	ID             int64
	Email          string
	Name           string
	Role           Role
	Restricted     bool
	OwnedCourseIDs []string
	Entitlements   []Entitlement
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Owns reports whether the identity authored the given course.
func (i *Identity) Owns(courseID string) bool {
	for _, id := range i.OwnedCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Entitled reports whether the identity purchased the given course.
func (i *Identity) Entitled(courseID string) bool {
	for _, e := range i.Entitlements {
		if e.CourseID == courseID {
			return true
		}
	}
	return false
}

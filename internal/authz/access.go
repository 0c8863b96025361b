package authz

import (
	"github.com/skillport/skillport/internal/identity"
)

// Access is the resource-level outcome of an entitlement check.
type Access struct {
	View   bool
	Modify bool
}

type accessOptions struct {
	adminBypass bool
}

// AccessOption tunes a single entitlement check.
type AccessOption func(*accessOptions)

// DenyAdminBypass makes the check treat admins like any other unentitled
// identity. Call sites that represent acting-as-a-participant operations
// (posting a comment, purchasing) opt out of the bypass explicitly.
func DenyAdminBypass() AccessOption {
	return func(o *accessOptions) {
		o.adminBypass = false
	}
}

// CheckAccess decides view/modify rights for an identity on a course.
// Ownership and entitlement are mutually exclusive by role: an educator
// gets full rights on owned courses and nothing on anyone else's; a student
// gets view-only rights on purchased courses and can never modify; admins
// bypass unless the call site disallows it. Any other state denies.
func CheckAccess(ident *identity.Identity, courseID string, opts ...AccessOption) Access {
	if ident == nil || courseID == "" {
		return Access{}
	}
	options := accessOptions{adminBypass: true}
	for _, opt := range opts {
		opt(&options)
	}

	switch ident.Role {
	case identity.RoleAdmin:
		if options.adminBypass {
			return Access{View: true, Modify: true}
		}
	case identity.RoleEducator:
		if ident.Owns(courseID) {
			return Access{View: true, Modify: true}
		}
	case identity.RoleStudent:
		if ident.Entitled(courseID) {
			return Access{View: true, Modify: false}
		}
	}
	// Unmatched role or relation: deny.
	return Access{}
}

// RequireRole returns a rejection unless the identity holds one of the
// given roles. Used by operations that are role-scoped rather than
// resource-scoped (purchasing, admin moderation).
func RequireRole(ident *identity.Identity, roles ...identity.Role) *Rejection {
	if ident == nil {
		return MissingCredential()
	}
	for _, role := range roles {
		if ident.Role == role {
			return nil
		}
	}
	return InsufficientRole()
}

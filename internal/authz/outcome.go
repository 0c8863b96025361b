// Package authz implements the layered access-control model: the edge
// role-path gate, the resource entitlement checker, and the request
// authorization facade that route handlers call. Every check either yields
// a resolved identity or a terminal Rejection; callers never proceed past a
// non-nil Rejection.
package authz

import (
	"net/http"

	"github.com/skillport/skillport/internal/platform/httpx"
)

// RejectionKind labels why an authorization attempt terminated.
type RejectionKind string

const (
	RejectMissingCredential       RejectionKind = "missing_credential"
	RejectInvalidCredential       RejectionKind = "invalid_credential"
	RejectIdentityNotFound        RejectionKind = "identity_not_found"
	RejectInsufficientRole        RejectionKind = "insufficient_role"
	RejectInsufficientEntitlement RejectionKind = "insufficient_entitlement"
	RejectRestricted              RejectionKind = "account_restricted"
	RejectInternal                RejectionKind = "internal_error"
)

// Rejection is the terminal variant of an authorization outcome. It carries
// everything a handler needs to end the request: status, reason kind, and
// the `{msg}` body.
type Rejection struct {
	Kind   RejectionKind
	Status int
	Msg    string
}

// Write ends the request with the rejection's status and body.
func (rej *Rejection) Write(w http.ResponseWriter) {
	httpx.Msg(w, rej.Status, rej.Msg)
}

// MissingCredential rejects a request that carried no token.
func MissingCredential() *Rejection {
	return &Rejection{Kind: RejectMissingCredential, Status: http.StatusUnauthorized, Msg: "login required"}
}

// InvalidCredential rejects a bad-signature, expired, malformed or revoked
// token.
func InvalidCredential() *Rejection {
	return &Rejection{Kind: RejectInvalidCredential, Status: http.StatusUnauthorized, Msg: "invalid or expired credential"}
}

// IdentityNotFound rejects a valid token whose identity record no longer
// exists. Treated as an authentication failure at the boundary, not a
// server error.
func IdentityNotFound() *Rejection {
	return &Rejection{Kind: RejectIdentityNotFound, Status: http.StatusNotFound, Msg: "account not found"}
}

// InsufficientRole rejects an identity whose role is not permitted for the
// operation, distinct from the unauthenticated case.
func InsufficientRole() *Rejection {
	return &Rejection{Kind: RejectInsufficientRole, Status: http.StatusForbidden, Msg: "role not permitted for this operation"}
}

// InsufficientEntitlement rejects an identity with no ownership or purchase
// relation to the resource.
func InsufficientEntitlement() *Rejection {
	return &Rejection{Kind: RejectInsufficientEntitlement, Status: http.StatusForbidden, Msg: "no access to this course"}
}

// Restricted rejects a soft-restricted account.
func Restricted() *Rejection {
	return &Rejection{Kind: RejectRestricted, Status: http.StatusForbidden, Msg: "account restricted"}
}

// Internal rejects on operational failure (storage, configuration) without
// leaking detail; the cause is logged server-side by the caller.
func Internal() *Rejection {
	return &Rejection{Kind: RejectInternal, Status: http.StatusInternalServerError, Msg: "internal error"}
}

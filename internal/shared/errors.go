package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredential occurs when no token accompanies a request.
	ErrMissingCredential = errors.New("credential missing")
	// ErrInvalidCredential occurs when a token fails signature, expiry or payload checks.
	ErrInvalidCredential = errors.New("credential invalid")
)

package httpx

import (
	"errors"
	"net/http"

	"github.com/skillport/skillport/internal/shared"
)

// RespondError maps domain errors to `{msg}` HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Msg(w, http.StatusNotFound, "not found")
	case errors.Is(err, shared.ErrDuplicate):
		Msg(w, http.StatusConflict, "already exists")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Msg(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, shared.ErrMissingCredential), errors.Is(err, shared.ErrInvalidCredential):
		Msg(w, http.StatusUnauthorized, "authentication required")
	default:
		Msg(w, http.StatusInternalServerError, "internal error")
	}
}

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/skillport/skillport/internal/shared"
)

// CookieName is the cookie carrying the bearer credential.
const CookieName = "token"

// TokenFromRequest extracts the raw credential from the request. The cookie
// is authoritative; the Authorization header is honored only where the
// caller opts in (the logout path).
func TokenFromRequest(r *http.Request, allowHeader bool) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err == nil && strings.TrimSpace(cookie.Value) != "" {
		return cookie.Value, nil
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		return "", err
	}
	if allowHeader {
		if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
			return header, nil
		}
	}
	return "", shared.ErrMissingCredential
}

// SetTokenCookie writes the credential cookie after login.
func SetTokenCookie(w http.ResponseWriter, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearTokenCookie actively expires the credential cookie. The edge gate
// calls this on a known-bad token so the client does not retry it.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

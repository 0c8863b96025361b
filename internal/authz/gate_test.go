package authz

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillport/skillport/internal/auth"
	"github.com/skillport/skillport/internal/identity"
)

func newTestGate(t *testing.T) (*Gate, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("gate-test-secret", time.Hour)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGate(logger, tokens, DefaultPolicyTable(), false), tokens
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func gateRequest(path, token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	return r
}

func TestGateSkipsOpenPaths(t *testing.T) {
	gate, _ := newTestGate(t)

	called := false
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Nil(t, ClaimsFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/courses/c1", ""))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	gate, _ := newTestGate(t)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for anonymous protected requests")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/learn/courses/c1", ""))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login?next=%2Flearn%2Fcourses%2Fc1", rec.Header().Get("Location"))
}

func TestGateClearsBadTokenAndRedirects(t *testing.T) {
	gate, _ := newTestGate(t)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/user/profile", "not-a-jwt"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/auth/login")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, auth.CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestGateClearsExpiredToken(t *testing.T) {
	gate, _ := newTestGate(t)
	shortLived, err := auth.NewTokenService("gate-test-secret", time.Nanosecond)
	require.NoError(t, err)
	token, err := shortLived.Issue(1, "late@example.com", identity.RoleStudent)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/learn/courses/c1", token))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/auth/login")
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestGateDeniesRoleViolation(t *testing.T) {
	gate, tokens := newTestGate(t)
	token, err := tokens.Issue(2, "s@example.com", identity.RoleStudent)
	require.NoError(t, err)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on a denied sub-path")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/educator/courses", token))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/unauthorized?role=student", rec.Header().Get("Location"))
	// A valid token with the wrong role keeps its cookie; only bad tokens
	// are cleared.
	require.Empty(t, rec.Result().Cookies())
}

func TestGatePassesClaimsDownstream(t *testing.T) {
	gate, tokens := newTestGate(t)
	token, err := tokens.Issue(3, "e@example.com", identity.RoleEducator)
	require.NoError(t, err)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		require.Equal(t, "e@example.com", claims.Email)
		require.Equal(t, string(identity.RoleEducator), claims.Role)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/educator/courses", token))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGateRejectsUnknownRoleClaim(t *testing.T) {
	gate, _ := newTestGate(t)
	// Mint a token whose role claim is outside the closed set.
	tokens, err := auth.NewTokenService("gate-test-secret", time.Hour)
	require.NoError(t, err)
	token, err := tokens.Issue(4, "odd@example.com", identity.Role("superuser"))
	require.NoError(t, err)

	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a malformed role claim")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, gateRequest("/user/profile", token))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/auth/login")
	require.Len(t, rec.Result().Cookies(), 1)
}

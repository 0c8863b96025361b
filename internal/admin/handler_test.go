package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillport/skillport/internal/auth"
	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

type identityStore struct {
	byEmail    map[string]*identity.Identity
	restricted map[int64]bool
}

func newIdentityStore() *identityStore {
	return &identityStore{byEmail: map[string]*identity.Identity{}, restricted: map[int64]bool{}}
}

func (s *identityStore) FindByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	ident, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return ident, nil
}

func (s *identityStore) List(ctx context.Context) ([]identity.Identity, error) {
	out := make([]identity.Identity, 0, len(s.byEmail))
	for _, ident := range s.byEmail {
		out = append(out, *ident)
	}
	return out, nil
}

func (s *identityStore) SetRestricted(ctx context.Context, id int64, restricted bool) error {
	for _, ident := range s.byEmail {
		if ident.ID == id {
			s.restricted[id] = restricted
			return nil
		}
	}
	return shared.ErrNotFound
}

type courseStore struct {
	courses map[string]*course.Course
}

func (s *courseStore) ListPublished(ctx context.Context, search string) ([]course.Course, error) {
	return nil, nil
}

func (s *courseStore) ListByEducator(ctx context.Context, educatorID int64) ([]course.Course, error) {
	return nil, nil
}

func (s *courseStore) GetByID(ctx context.Context, id string) (*course.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (s *courseStore) Create(ctx context.Context, c *course.Course) error {
	s.courses[c.ID] = c
	return nil
}

func (s *courseStore) Update(ctx context.Context, c *course.Course) error {
	s.courses[c.ID] = c
	return nil
}

func (s *courseStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.courses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

type fixture struct {
	identities *identityStore
	courses    *courseStore
	tokens     *auth.TokenService
	router     chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenService("admin-test-secret", time.Hour)
	require.NoError(t, err)

	identities := newIdentityStore()
	courses := &courseStore{courses: map[string]*course.Course{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	identityService := identity.NewService(identities)
	authorizer := authz.NewAuthorizer(logger, tokens, nil, identityService, nil)
	handler := NewHandler(logger, identityService, course.NewService(courses), authorizer)

	router := chi.NewRouter()
	router.Route("/admin", handler.MountRoutes)

	return &fixture{identities: identities, courses: courses, tokens: tokens, router: router}
}

func (f *fixture) seed(ident *identity.Identity) *identity.Identity {
	f.identities.byEmail[ident.Email] = ident
	return ident
}

func (f *fixture) do(t *testing.T, method, path string, body any, as *identity.Identity) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if as != nil {
		token, err := f.tokens.Issue(as.ID, as.Email, as.Role)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	admin := f.seed(&identity.Identity{ID: 1, Email: "ops@x.com", Role: identity.RoleAdmin})
	f.seed(&identity.Identity{ID: 11, Email: "s@x.com", Role: identity.RoleStudent})

	rec := f.do(t, http.MethodGet, "/admin/users", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []userRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	f := newFixture(t)
	student := f.seed(&identity.Identity{ID: 11, Email: "s@x.com", Role: identity.RoleStudent})
	educator := f.seed(&identity.Identity{ID: 7, Email: "e@x.com", Role: identity.RoleEducator})

	for _, ident := range []*identity.Identity{student, educator} {
		rec := f.do(t, http.MethodGet, "/admin/users", nil, ident)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role=%s", ident.Role)
	}

	rec := f.do(t, http.MethodGet, "/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetRestriction(t *testing.T) {
	f := newFixture(t)
	admin := f.seed(&identity.Identity{ID: 1, Email: "ops@x.com", Role: identity.RoleAdmin})
	f.seed(&identity.Identity{ID: 11, Email: "s@x.com", Role: identity.RoleStudent})

	rec := f.do(t, http.MethodPost, "/admin/users/11/restriction", map[string]bool{"restricted": true}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.identities.restricted[11])

	rec = f.do(t, http.MethodPost, "/admin/users/11/restriction", map[string]bool{"restricted": false}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.identities.restricted[11])
}

func TestSetRestrictionGuards(t *testing.T) {
	f := newFixture(t)
	admin := f.seed(&identity.Identity{ID: 1, Email: "ops@x.com", Role: identity.RoleAdmin})

	// Admins cannot lock themselves out.
	rec := f.do(t, http.MethodPost, "/admin/users/1/restriction", map[string]bool{"restricted": true}, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/admin/users/999/restriction", map[string]bool{"restricted": true}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/admin/users/not-a-number/restriction", map[string]bool{"restricted": true}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTakedown(t *testing.T) {
	f := newFixture(t)
	admin := f.seed(&identity.Identity{ID: 1, Email: "ops@x.com", Role: identity.RoleAdmin})
	f.courses.courses["c1"] = &course.Course{ID: "c1", EducatorID: 7, Title: "Target"}

	rec := f.do(t, http.MethodDelete, "/admin/courses/c1", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, f.courses.courses, "c1")

	rec = f.do(t, http.MethodDelete, "/admin/courses/c1", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

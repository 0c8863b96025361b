package enrollment

import (
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
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

type identityDirectory map[string]*identity.Identity

func (d identityDirectory) Resolve(ctx context.Context, email string) (*identity.Identity, error) {
	ident, ok := d[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return ident, nil
}

type fixture struct {
	repo      *memoryRepo
	tokens    *auth.TokenService
	directory identityDirectory
	router    chi.Router
}

func newFixture(t *testing.T, catalog courseCatalog) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenService("enrollment-test-secret", time.Hour)
	require.NoError(t, err)

	repo := &memoryRepo{}
	directory := identityDirectory{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorizer := authz.NewAuthorizer(logger, tokens, nil, directory, nil)
	service := NewService(logger, repo, catalog, nil)
	handler := NewHandler(logger, service, authorizer)

	router := chi.NewRouter()
	router.Route("/user/purchases", handler.MountRoutes)

	return &fixture{repo: repo, tokens: tokens, directory: directory, router: router}
}

func (f *fixture) do(t *testing.T, method, path string, as *identity.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if as != nil {
		token, err := f.tokens.Issue(as.ID, as.Email, as.Role)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPurchaseEndpoint(t *testing.T) {
	f := newFixture(t, courseCatalog{
		"c1": {ID: "c1", Title: "Intro", PriceCents: 4900, Published: true},
	})
	buyer := student()
	f.directory[buyer.Email] = buyer

	rec := f.do(t, http.MethodPost, "/user/purchases/c1", buyer)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body purchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "c1", body.CourseID)
	assert.Equal(t, int64(4900), body.PriceCents)
}

func TestPurchaseRejectsNonStudents(t *testing.T) {
	f := newFixture(t, courseCatalog{
		"c1": {ID: "c1", Title: "Intro", PriceCents: 4900, Published: true},
	})
	educator := &identity.Identity{ID: 7, Email: "e@x.com", Role: identity.RoleEducator}
	admin := &identity.Identity{ID: 1, Email: "ops@x.com", Role: identity.RoleAdmin}
	f.directory[educator.Email] = educator
	f.directory[admin.Email] = admin

	rec := f.do(t, http.MethodPost, "/user/purchases/c1", educator)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/user/purchases/c1", admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Empty(t, f.repo.purchases)
}

func TestPurchaseUnknownCourseEndpoint(t *testing.T) {
	f := newFixture(t, courseCatalog{})
	buyer := student()
	f.directory[buyer.Email] = buyer

	rec := f.do(t, http.MethodPost, "/user/purchases/missing", buyer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchaseDraftEndpoint(t *testing.T) {
	f := newFixture(t, courseCatalog{
		"c1": {ID: "c1", Title: "Draft", Published: false},
	})
	buyer := student()
	f.directory[buyer.Email] = buyer

	rec := f.do(t, http.MethodPost, "/user/purchases/c1", buyer)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t, courseCatalog{})
	buyer := student()
	f.directory[buyer.Email] = buyer
	f.repo.purchases = []Purchase{
		{ID: 1, UserID: buyer.ID, CourseID: "c1", PriceCents: 100, CreatedAt: time.Now()},
	}

	rec := f.do(t, http.MethodGet, "/user/purchases/", buyer)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []purchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "c1", out[0].CourseID)
}

func TestEndpointsRequireCredential(t *testing.T) {
	f := newFixture(t, courseCatalog{})

	rec := f.do(t, http.MethodGet, "/user/purchases/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/user/purchases/c1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

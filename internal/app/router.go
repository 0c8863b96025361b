package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skillport/skillport/internal/admin"
	"github.com/skillport/skillport/internal/auth"
	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/comment"
	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/enrollment"
	"github.com/skillport/skillport/internal/observability"
	"github.com/skillport/skillport/internal/platform/httpx"
	"github.com/skillport/skillport/internal/profile"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Gate              *authz.Gate
	Metrics           *observability.Metrics
	AuthHandler       *auth.Handler
	CourseHandler     *course.Handler
	CommentHandler    *comment.Handler
	EnrollmentHandler *enrollment.Handler
	ProfileHandler    *profile.Handler
	AdminHandler      *admin.Handler
}

// NewRouter constructs the chi.Router with Skillport defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Gate:    params.Gate,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Target of the gate's role-violation redirect.
	r.Get("/unauthorized", func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		msg := "you are not authorized for the requested area"
		if role != "" {
			msg = fmt.Sprintf("role %s is not authorized for the requested area", role)
		}
		httpx.Msg(w, http.StatusForbidden, msg)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/courses", params.CourseHandler.MountCatalog)
	r.Route("/learn", func(r chi.Router) {
		params.CourseHandler.MountClassroom(r)
		r.Route("/courses/{courseID}/comments", params.CommentHandler.MountRoutes)
	})
	r.Route("/user", func(r chi.Router) {
		params.ProfileHandler.MountRoutes(r)
		r.Route("/purchases", params.EnrollmentHandler.MountRoutes)
	})
	r.Route("/educator", params.CourseHandler.MountEducator)
	r.Route("/admin", params.AdminHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Msg(w, http.StatusNotFound, "not found")
	})

	return r
}

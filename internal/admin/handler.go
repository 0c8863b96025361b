// Package admin exposes moderation endpoints: identity listing, the
// restriction flag, and course takedown.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/platform/httpx"
	"github.com/skillport/skillport/internal/shared"
)

// Handler wires the /admin routes. The edge gate already denies students
// and educators under /admin; each operation still re-checks the admin role
// explicitly so the invariant does not depend on the path policy alone.
type Handler struct {
	logger     *slog.Logger
	identities *identity.Service
	courses    *course.Service
	authorizer *authz.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, identities *identity.Service, courses *course.Service, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		logger:     logger,
		identities: identities,
		courses:    courses,
		authorizer: authorizer,
	}
}

// MountRoutes registers admin routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/users", h.listUsers)
	r.Post("/users/{userID}/restriction", h.setRestriction)
	r.Delete("/courses/{courseID}", h.takedown)
}

type userRow struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Restricted bool      `json:"restricted"`
	CreatedAt  time.Time `json:"createdAt"`
}

type restrictionRequest struct {
	Restricted bool `json:"restricted"`
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) *identity.Identity {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return nil
	}
	if rej := authz.RequireRole(ident, identity.RoleAdmin); rej != nil {
		rej.Write(w)
		return nil
	}
	return ident
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	identities, err := h.identities.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows := make([]userRow, 0, len(identities))
	for _, ident := range identities {
		rows = append(rows, userRow{
			ID:         ident.ID,
			Email:      ident.Email,
			Name:       ident.Name,
			Role:       string(ident.Role),
			Restricted: ident.Restricted,
			CreatedAt:  ident.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// setRestriction toggles the soft-restriction flag. Takes effect on the
// target's very next request; authorization reads the durable record fresh
// each time.
func (h *Handler) setRestriction(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if userID == admin.ID {
		httpx.Msg(w, http.StatusConflict, "cannot restrict your own account")
		return
	}

	var req restrictionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.identities.SetRestricted(r.Context(), userID, req.Restricted); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("set restriction", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.Msg(w, http.StatusOK, "restriction updated")
}

// takedown removes a course through the admin bypass.
func (h *Handler) takedown(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}

	courseID := chi.URLParam(r, "courseID")
	if access := authz.CheckAccess(admin, courseID); !access.Modify {
		authz.InsufficientEntitlement().Write(w)
		return
	}

	if err := h.courses.Delete(r.Context(), courseID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.Error("course takedown", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.logger.Info("course removed by admin",
		slog.String("course_id", courseID),
		slog.Int64("admin_id", admin.ID))
	httpx.Msg(w, http.StatusOK, "course removed")
}

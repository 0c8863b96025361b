// Package profile serves the signed-in user's account view.
package profile

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/platform/httpx"
)

// Handler serves /user/profile.
type Handler struct {
	authorizer *authz.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(authorizer *authz.Authorizer) *Handler {
	return &Handler{authorizer: authorizer}
}

// MountRoutes registers the profile route on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/profile", h.profile)
}

type profileResponse struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Role         string        `json:"role"`
	OwnedCourses []string      `json:"ownedCourses,omitempty"`
	Entitlements []entitlement `json:"entitlements,omitempty"`
	MemberSince  time.Time     `json:"memberSince"`
}

type entitlement struct {
	CourseID   string    `json:"courseId"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return
	}

	resp := profileResponse{
		ID:           ident.ID,
		Email:        ident.Email,
		Name:         ident.Name,
		Role:         string(ident.Role),
		OwnedCourses: ident.OwnedCourseIDs,
		MemberSince:  ident.CreatedAt,
	}
	for _, e := range ident.Entitlements {
		resp.Entitlements = append(resp.Entitlements, entitlement{CourseID: e.CourseID, AcquiredAt: e.AcquiredAt})
	}
	httpx.JSON(w, http.StatusOK, resp)
}

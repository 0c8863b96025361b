package enrollment

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/platform/httpx"
	"github.com/skillport/skillport/internal/shared"
)

// Handler wires purchase endpoints under /user/purchases.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	authorizer *authz.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authorizer *authz.Authorizer) *Handler {
	return &Handler{logger: logger, service: service, authorizer: authorizer}
}

// MountRoutes registers purchase routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.history)
	r.Post("/{courseID}", h.purchase)
}

type purchaseResponse struct {
	CourseID   string    `json:"courseId"`
	PriceCents int64     `json:"priceCents"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// purchase creates the entitlement record. Entitlements belong to students
// only; the edge gate already denies educators and admins under
// /user/purchases, and the role check here keeps the invariant even if the
// path policy changes.
func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return
	}
	if rej := authz.RequireRole(ident, identity.RoleStudent); rej != nil {
		rej.Write(w)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	p, err := h.service.Purchase(r.Context(), ident, courseID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Msg(w, http.StatusNotFound, "course not found")
		case errors.Is(err, ErrUnpublished):
			httpx.Msg(w, http.StatusConflict, "course is not available for purchase")
		default:
			h.logger.Error("purchase", slog.Any("error", err))
			httpx.Msg(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, purchaseResponse{
		CourseID:   p.CourseID,
		PriceCents: p.PriceCents,
		AcquiredAt: p.CreatedAt,
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return
	}
	if rej := authz.RequireRole(ident, identity.RoleStudent); rej != nil {
		rej.Write(w)
		return
	}

	purchases, err := h.service.History(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("purchase history", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]purchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseResponse{CourseID: p.CourseID, PriceCents: p.PriceCents, AcquiredAt: p.CreatedAt})
	}
	httpx.JSON(w, http.StatusOK, out)
}

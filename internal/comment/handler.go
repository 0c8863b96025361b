package comment

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/platform/httpx"
)

// Handler wires classroom comment endpoints. Both operations are
// resource-scoped: the facade must grant view access to the course before
// anything touches storage.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	authorizer *authz.Authorizer
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		authorizer: authorizer,
		validator:  validator.New(),
	}
}

// MountRoutes registers comment routes; expects a {courseID} URL parameter
// from the parent route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type createRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type commentResponse struct {
	ID         int64     `json:"id"`
	CourseID   string    `json:"courseId"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	// Admin bypass stays on here: moderation needs to read any thread.
	_, _, rej := h.authorizer.AuthorizeCourse(r, courseID)
	if rej != nil {
		rej.Write(w)
		return
	}

	comments, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.logger.Error("list comments", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(comments))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	// Posting is an acting-as-participant operation: only the owning
	// educator or an entitled student may write, admins do not bypass.
	ident, _, rej := h.authorizer.AuthorizeCourse(r, courseID, authz.DenyAdminBypass())
	if rej != nil {
		rej.Write(w)
		return
	}

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "comment body is required")
		return
	}

	created, err := h.service.Post(r.Context(), ident, courseID, req.Body)
	if err != nil {
		h.logger.Error("post comment", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(*created))
}

func toResponse(c Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		CourseID:   c.CourseID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

func toResponses(comments []Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toResponse(c))
	}
	return out
}

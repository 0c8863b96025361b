package course

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/comment"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/platform/httpx"
	"github.com/skillport/skillport/internal/shared"
)

// CommentLister provides the classroom discussion thread.
type CommentLister interface {
	ListByCourse(ctx context.Context, courseID string) ([]comment.Comment, error)
}

// EnrollmentCounter reports enrollment volume for a course.
type EnrollmentCounter interface {
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

// Handler wires course endpoints: the public catalog, the entitlement-gated
// classroom, and educator authoring.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	comments    CommentLister
	enrollments EnrollmentCounter
	authorizer  *authz.Authorizer
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, comments CommentLister, enrollments EnrollmentCounter, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		comments:    comments,
		enrollments: enrollments,
		authorizer:  authorizer,
		validator:   validator.New(),
	}
}

// MountCatalog registers the unauthenticated catalog routes.
func (h *Handler) MountCatalog(r chi.Router) {
	r.Get("/", h.browse)
	r.Get("/{courseID}", h.summary)
}

// MountClassroom registers the entitlement-gated classroom view; expects a
// {courseID} URL parameter.
func (h *Handler) MountClassroom(r chi.Router) {
	r.Get("/courses/{courseID}", h.classroom)
}

// MountEducator registers the authoring routes under /educator.
func (h *Handler) MountEducator(r chi.Router) {
	r.Get("/courses", h.listOwn)
	r.Post("/courses", h.create)
	r.Put("/courses/{courseID}", h.update)
	r.Delete("/courses/{courseID}", h.remove)
}

type courseInput struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Category    string `json:"category" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=10000"`
	PriceCents  int64  `json:"priceCents" validate:"gte=0"`
	Published   bool   `json:"published"`
}

type courseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type classroomResponse struct {
	Course      courseResponse `json:"course"`
	Comments    []commentView  `json:"comments"`
	Enrollments int64          `json:"enrollments"`
	CanModify   bool           `json:"canModify"`
}

type commentView struct {
	ID         int64     `json:"id"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.Browse(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("browse courses", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(courses))
}

// summary is the public course page: metadata only, no classroom content.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil || !c.Published {
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("course summary", slog.Any("error", err))
			httpx.Msg(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.Msg(w, http.StatusNotFound, "course not found")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(c))
}

// classroom is the gated course view: owner educator, entitled student, or
// admin. The course, its discussion and its enrollment count are fetched
// concurrently, and only after access is granted.
func (h *Handler) classroom(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	_, access, rej := h.authorizer.AuthorizeCourse(r, courseID)
	if rej != nil {
		rej.Write(w)
		return
	}

	var (
		c        *Course
		comments []comment.Comment
		count    int64
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		c, err = h.service.Get(ctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = h.comments.ListByCourse(ctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = h.enrollments.CountByCourse(ctx, courseID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Msg(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.Error("classroom view", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, commentView{ID: cm.ID, AuthorName: cm.AuthorName, Body: cm.Body, CreatedAt: cm.CreatedAt})
	}
	httpx.JSON(w, http.StatusOK, classroomResponse{
		Course:      toResponse(c),
		Comments:    views,
		Enrollments: count,
		CanModify:   access.Modify,
	})
}

func (h *Handler) listOwn(w http.ResponseWriter, r *http.Request) {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return
	}
	if rej := authz.RequireRole(ident, identity.RoleEducator); rej != nil {
		rej.Write(w)
		return
	}

	courses, err := h.service.ListOwn(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list own courses", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(courses))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident, rej := h.authorizer.Authenticate(r)
	if rej != nil {
		rej.Write(w)
		return
	}
	if rej := authz.RequireRole(ident, identity.RoleEducator); rej != nil {
		rej.Write(w)
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), ident.ID, in)
	if err != nil {
		h.logger.Error("create course", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

// update requires modify rights: the owning educator, or an admin through
// the bypass.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	_, access, rej := h.authorizer.AuthorizeCourse(r, courseID)
	if rej != nil {
		rej.Write(w)
		return
	}
	if !access.Modify {
		authz.InsufficientEntitlement().Write(w)
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), courseID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), c, in)
	if err != nil {
		h.logger.Error("update course", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	_, access, rej := h.authorizer.AuthorizeCourse(r, courseID)
	if rej != nil {
		rej.Write(w)
		return
	}
	if !access.Modify {
		authz.InsufficientEntitlement().Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), courseID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "course removed")
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req courseInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "malformed request body")
		return Input{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "invalid course data")
		return Input{}, false
	}
	return Input{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	}, true
}

func toResponse(c *Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Category:    c.Category,
		Description: c.Description,
		PriceCents:  c.PriceCents,
		Published:   c.Published,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toResponses(courses []Course) []courseResponse {
	out := make([]courseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toResponse(&courses[i]))
	}
	return out
}

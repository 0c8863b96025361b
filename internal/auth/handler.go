package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillport/skillport/internal/platform/httpx"
	"github.com/skillport/skillport/internal/shared"
)

// WelcomeEnqueuer queues the registration welcome email.
type WelcomeEnqueuer interface {
	EnqueueWelcome(ctx context.Context, to, name string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenService
	revoked   *RevocationList
	welcome   WelcomeEnqueuer
	validator *validator.Validate
	secure    bool
}

// NewHandler constructs a Handler instance. welcome may be nil.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenService, revoked *RevocationList, welcome WelcomeEnqueuer, secure bool) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		revoked:   revoked,
		welcome:   welcome,
		validator: validator.New(),
		secure:    secure,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.loginEntry)
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=student educator"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// loginEntry is the target of the edge gate's login redirect. The client is
// browsable, so the gate sends unauthenticated traffic here instead of
// answering a bare 401 in place.
func (h *Handler) loginEntry(w http.ResponseWriter, r *http.Request) {
	httpx.Msg(w, http.StatusUnauthorized, "login required")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "invalid registration data")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.Msg(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("register", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if h.welcome != nil {
		if err := h.welcome.EnqueueWelcome(r.Context(), user.Email, user.Name); err != nil {
			h.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Msg(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Msg(w, http.StatusInternalServerError, "login failed")
		return
	}

	SetTokenCookie(w, token, h.tokens.TTL(), h.secure)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// handleLogout revokes the presented credential and clears the cookie. This
// is the one path that also honors an Authorization: Bearer header, so a
// client that lost its cookie can still invalidate a token it holds.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw, err := TokenFromRequest(r, true)
	if err != nil {
		ClearTokenCookie(w, h.secure)
		httpx.Msg(w, http.StatusOK, "logged out")
		return
	}

	claims, err := h.tokens.Verify(raw)
	if err == nil && claims.ExpiresAt != nil {
		if err := h.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.logger.Error("revoke token", slog.Any("error", err))
			httpx.Msg(w, http.StatusInternalServerError, "logout failed")
			return
		}
	}

	ClearTokenCookie(w, h.secure)
	httpx.Msg(w, http.StatusOK, "logged out")
}

func toUserResponse(user *User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}

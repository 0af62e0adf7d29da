package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forkful-app/forkful/internal/domain"
	"github.com/forkful-app/forkful/internal/observability"
	"github.com/forkful-app/forkful/internal/platform/httpx"
	"github.com/forkful-app/forkful/internal/shared"
	"github.com/forkful-app/forkful/internal/users"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenStore
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. Metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenStore, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	user, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidName),
			errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrWeakPassword),
			errors.Is(err, users.ErrDuplicateEmail):
			httpx.Problem(w, http.StatusBadRequest, "Registration Failed", err.Error())
		default:
			h.logger.Error("register", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.metrics.ObserveLogin("rejected")
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.ObserveLogin("ok")
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user no longer exists")
			return
		}
		h.logger.Error("current user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequestContext(r.Context())
	_ = h.service.Logout(r.Context(), token)
	w.WriteHeader(http.StatusNoContent)
}

// RequireAuth verifies the bearer token and loads the bound user id into
// the request context. Invalid and expired tokens receive the same 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		userID, err := h.tokens.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			h.logger.Error("verify token", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithUserID(r.Context(), userID)
		ctx = contextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type tokenContextKey struct{}

func contextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromRequestContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0].Field() + " is invalid"
	}
	return "invalid request"
}

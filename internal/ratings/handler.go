package ratings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forkful-app/forkful/internal/platform/httpx"
	"github.com/forkful-app/forkful/internal/shared"
)

// Handler wires HTTP endpoints for ratings.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	requireAuth func(http.Handler) http.Handler
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, requireAuth func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		requireAuth: requireAuth,
		validator:   validator.New(),
	}
}

// MountRoutes registers rating routes on provided router. Recipe-scoped
// reads are mounted separately via MountRecipeRoutes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/", h.addRating)
		r.Delete("/{ratingID}", h.deleteRating)
		r.Get("/mine", h.listMine)
	})
}

// MountRecipeRoutes registers the recipe-scoped rating reads.
func (h *Handler) MountRecipeRoutes(r chi.Router) {
	r.Get("/{recipeID}/ratings", h.listByRecipe)
	r.Get("/{recipeID}/ratings/summary", h.summary)
}

type addRatingRequest struct {
	RecipeID string `json:"recipe_id" validate:"required"`
	Value    int    `json:"rating" validate:"required,min=1,max=5"`
}

func (h *Handler) addRating(w http.ResponseWriter, r *http.Request) {
	var req addRatingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rating, err := h.service.Add(r.Context(), shared.UserIDFromContext(r.Context()), req.RecipeID, req.Value)
	if err != nil {
		h.respondErr(w, "add rating", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rating)
}

func (h *Handler) deleteRating(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "ratingID"))
	if err != nil {
		h.respondErr(w, "delete rating", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.ListByUser(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondErr(w, "list own ratings", err)
		return
	}
	if ratings == nil {
		ratings = []Rating{}
	}
	httpx.JSON(w, http.StatusOK, ratings)
}

func (h *Handler) listByRecipe(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.service.ListByRecipe(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		h.respondErr(w, "list recipe ratings", err)
		return
	}
	if ratings == nil {
		ratings = []Rating{}
	}
	httpx.JSON(w, http.StatusOK, ratings)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		h.respondErr(w, "rating summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRecipeNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAlreadyRated), errors.Is(err, ErrValueOutOfRange):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Rating", err.Error())
	case errors.Is(err, ErrNotOwner):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

package recipes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forkful-app/forkful/internal/platform/httpx"
	"github.com/forkful-app/forkful/internal/shared"
)

// Handler wires HTTP endpoints for recipes.
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

// MountRoutes registers recipe routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRecipes)
	r.Get("/{recipeID}", h.getRecipe)
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/", h.createRecipe)
		r.Put("/{recipeID}", h.updateRecipe)
		r.Delete("/{recipeID}", h.deleteRecipe)
	})
}

type recipeRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Ingredients  string `json:"ingredients" validate:"required"`
	Instructions string `json:"instructions" validate:"required"`
	Category     string `json:"category" validate:"required,max=100"`
	ImageURL     string `json:"img_url" validate:"omitempty,url"`
}

func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list recipes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if recipes == nil {
		recipes = []Recipe{}
	}
	httpx.JSON(w, http.StatusOK, recipes)
}

func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.service.Get(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		h.respondErr(w, "get recipe", err)
		return
	}
	httpx.JSON(w, http.StatusOK, recipe)
}

func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeRecipe(w, r)
	if !ok {
		return
	}
	recipe, err := h.service.Create(r.Context(), shared.UserIDFromContext(r.Context()), input)
	if err != nil {
		h.respondErr(w, "create recipe", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, recipe)
}

func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeRecipe(w, r)
	if !ok {
		return
	}
	recipe, err := h.service.Update(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "recipeID"), input)
	if err != nil {
		h.respondErr(w, "update recipe", err)
		return
	}
	httpx.JSON(w, http.StatusOK, recipe)
}

func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), chi.URLParam(r, "recipeID"))
	if err != nil {
		h.respondErr(w, "delete recipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeRecipe(w http.ResponseWriter, r *http.Request) (CreateInput, bool) {
	var req recipeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return CreateInput{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return CreateInput{}, false
	}
	return CreateInput{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Category:     req.Category,
		ImageURL:     req.ImageURL,
	}, true
}

func (h *Handler) respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNotOwner):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/forkful-app/forkful/internal/auth"
	"github.com/forkful-app/forkful/internal/observability"
	"github.com/forkful-app/forkful/internal/ratings"
	"github.com/forkful-app/forkful/internal/recipes"
	"github.com/forkful-app/forkful/internal/users"
	"github.com/forkful-app/forkful/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	RecipesHandler *recipes.Handler
	RatingsHandler *ratings.Handler
	JobsHandler    *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Forkful defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
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

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/me", params.UsersHandler.MountRoutes)
	}
	r.Route("/recipes", func(r chi.Router) {
		params.RecipesHandler.MountRoutes(r)
		if params.RatingsHandler != nil {
			params.RatingsHandler.MountRecipeRoutes(r)
		}
	})
	if params.RatingsHandler != nil {
		r.Route("/ratings", params.RatingsHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

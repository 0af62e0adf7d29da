package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/forkful-app/forkful/internal/app"
	"github.com/forkful-app/forkful/internal/auth"
	"github.com/forkful-app/forkful/internal/observability"
	"github.com/forkful-app/forkful/internal/platform/cache"
	"github.com/forkful-app/forkful/internal/platform/db"
	"github.com/forkful-app/forkful/internal/ratings"
	"github.com/forkful-app/forkful/internal/recipes"
	"github.com/forkful-app/forkful/internal/users"
	"github.com/forkful-app/forkful/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	directory := users.NewDirectory(dbpool)
	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenSecret, cfg.TokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(logger, directory, tokenStore, authRepo)
	authHandler := auth.NewHandler(logger, authService, tokenStore, metrics)

	usersService := users.NewService(directory)
	usersHandler := users.NewHandler(logger, usersService, authHandler.RequireAuth)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	recipeRepo := recipes.NewRepository(dbpool)
	recipeCache := recipes.NewCache(redisClient, 5*time.Minute)
	recipeService := recipes.NewService(logger, recipeRepo, recipeCache)
	recipeHandler := recipes.NewHandler(logger, recipeService, authHandler.RequireAuth)

	ratingRepo := ratings.NewRepository(dbpool)
	ratingService := ratings.NewService(logger, ratingRepo, jobsClient)
	ratingHandler := ratings.NewHandler(logger, ratingService, authHandler.RequireAuth)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		UsersHandler:   usersHandler,
		RecipesHandler: recipeHandler,
		RatingsHandler: ratingHandler,
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

package ratings

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Enqueuer schedules background recounts of a recipe's rating aggregate.
type Enqueuer interface {
	EnqueueRatingRecount(ctx context.Context, recipeID string) error
}

// Service handles rating business logic.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	enqueuer Enqueuer
}

// NewService builds Service instance. The enqueuer may be nil, in which
// case aggregates are recounted synchronously.
func NewService(logger *slog.Logger, repo RepositoryPort, enqueuer Enqueuer) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, enqueuer: enqueuer}
}

// Add records a 1..5 rating by userID on recipeID.
func (s *Service) Add(ctx context.Context, userID, recipeID string, value int) (*Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrValueOutOfRange
	}
	rating := &Rating{
		ID:       uuid.NewString(),
		RecipeID: recipeID,
		UserID:   userID,
		Value:    value,
	}
	if err := s.repo.Add(ctx, rating); err != nil {
		return nil, err
	}
	s.scheduleRecount(ctx, recipeID)
	return rating, nil
}

// Delete removes a rating. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rating, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if rating.UserID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.scheduleRecount(ctx, rating.RecipeID)
	return nil
}

// ListByRecipe returns all ratings of a recipe.
func (s *Service) ListByRecipe(ctx context.Context, recipeID string) ([]Rating, error) {
	return s.repo.ListByRecipe(ctx, recipeID)
}

// ListByUser returns all ratings a user has given.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Rating, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Summary returns the live aggregate for a recipe.
func (s *Service) Summary(ctx context.Context, recipeID string) (Summary, error) {
	return s.repo.Summarize(ctx, recipeID)
}

func (s *Service) scheduleRecount(ctx context.Context, recipeID string) {
	if s.enqueuer != nil {
		err := s.enqueuer.EnqueueRatingRecount(ctx, recipeID)
		if err == nil {
			return
		}
		s.logger.Warn("enqueue rating recount", slog.Any("error", err))
	}
	if err := s.repo.Recount(ctx, recipeID); err != nil {
		s.logger.Warn("recount ratings", slog.Any("error", err))
	}
}

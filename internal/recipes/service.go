package recipes

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service handles recipe business logic.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	cache  *Cache
	group  singleflight.Group
}

// NewService builds Service instance. The cache may be nil.
func NewService(logger *slog.Logger, repo RepositoryPort, cache *Cache) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, cache: cache}
}

// List returns all recipes. Concurrent cache misses collapse into a single
// database read.
func (s *Service) List(ctx context.Context) ([]Recipe, error) {
	if recipes, ok := s.cache.GetList(ctx); ok {
		return recipes, nil
	}

	result, err, _ := s.group.Do(listCacheKey, func() (any, error) {
		recipes, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, recipes); err != nil {
			s.logger.Warn("cache recipe list", slog.Any("error", err))
		}
		return recipes, nil
	})
	if err != nil {
		return nil, err
	}
	recipes, _ := result.([]Recipe)
	return recipes, nil
}

// Get fetches a single recipe.
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries the submitted recipe fields.
type CreateInput struct {
	Title        string
	Ingredients  string
	Instructions string
	Category     string
	ImageURL     string
}

// Create stores a new recipe authored by authorID.
func (s *Service) Create(ctx context.Context, authorID string, input CreateInput) (*Recipe, error) {
	recipe := &Recipe{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		Category:     input.Category,
		ImageURL:     input.ImageURL,
		AuthorID:     authorID,
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	s.bustList(ctx)
	return recipe, nil
}

// Update replaces the editable fields. Only the author may update.
func (s *Service) Update(ctx context.Context, userID, id string, input CreateInput) (*Recipe, error) {
	recipe, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrNotOwner
	}

	recipe.Title = input.Title
	recipe.Ingredients = input.Ingredients
	recipe.Instructions = input.Instructions
	recipe.Category = input.Category
	recipe.ImageURL = input.ImageURL

	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	s.bustList(ctx)
	return recipe, nil
}

// Delete removes a recipe. Only the author may delete.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	recipe, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted concurrently; the outcome is the same.
			return nil
		}
		return err
	}
	s.bustList(ctx)
	return nil
}

func (s *Service) bustList(ctx context.Context) {
	if err := s.cache.Bust(ctx); err != nil {
		s.logger.Warn("bust recipe list cache", slog.Any("error", err))
	}
}

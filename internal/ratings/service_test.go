package ratings_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-app/forkful/internal/ratings"
)

// memRatings is an in-memory ratings.RepositoryPort. Recipes listed in
// knownRecipes stand in for the foreign key.
type memRatings struct {
	mu           sync.Mutex
	byID         map[string]ratings.Rating
	knownRecipes map[string]bool
	recounts     []string
}

func newMemRatings(recipeIDs ...string) *memRatings {
	known := make(map[string]bool, len(recipeIDs))
	for _, id := range recipeIDs {
		known[id] = true
	}
	return &memRatings{byID: make(map[string]ratings.Rating), knownRecipes: known}
}

func (m *memRatings) Add(ctx context.Context, rating *ratings.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.knownRecipes[rating.RecipeID] {
		return ratings.ErrRecipeNotFound
	}
	for _, existing := range m.byID {
		if existing.RecipeID == rating.RecipeID && existing.UserID == rating.UserID {
			return ratings.ErrAlreadyRated
		}
	}
	rating.CreatedAt = time.Now().UTC()
	m.byID[rating.ID] = *rating
	return nil
}

func (m *memRatings) Get(ctx context.Context, id string) (*ratings.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rating, ok := m.byID[id]
	if !ok {
		return nil, ratings.ErrNotFound
	}
	return &rating, nil
}

func (m *memRatings) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ratings.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRatings) ListByRecipe(ctx context.Context, recipeID string) ([]ratings.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ratings.Rating
	for _, rating := range m.byID {
		if rating.RecipeID == recipeID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (m *memRatings) ListByUser(ctx context.Context, userID string) ([]ratings.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ratings.Rating
	for _, rating := range m.byID {
		if rating.UserID == userID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (m *memRatings) Summarize(ctx context.Context, recipeID string) (ratings.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := ratings.Summary{RecipeID: recipeID}
	total := 0
	for _, rating := range m.byID {
		if rating.RecipeID == recipeID {
			total += rating.Value
			summary.Count++
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}

func (m *memRatings) Recount(ctx context.Context, recipeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recounts = append(m.recounts, recipeID)
	return nil
}

// stubEnqueuer records enqueued recounts and can be made to fail.
type stubEnqueuer struct {
	mu       sync.Mutex
	enqueued []string
	fail     bool
}

func (s *stubEnqueuer) EnqueueRatingRecount(ctx context.Context, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker down")
	}
	s.enqueued = append(s.enqueued, recipeID)
	return nil
}

func TestAddValidatesRange(t *testing.T) {
	service := ratings.NewService(nil, newMemRatings("recipe-1"), nil)
	ctx := context.Background()

	for _, value := range []int{0, -1, 6, 100} {
		_, err := service.Add(ctx, "user-1", "recipe-1", value)
		assert.ErrorIs(t, err, ratings.ErrValueOutOfRange, "value %d", value)
	}
}

func TestAddRecountsSynchronouslyWithoutEnqueuer(t *testing.T) {
	repo := newMemRatings("recipe-1")
	service := ratings.NewService(nil, repo, nil)
	ctx := context.Background()

	rating, err := service.Add(ctx, "user-1", "recipe-1", 4)
	require.NoError(t, err)
	assert.NotEmpty(t, rating.ID)
	assert.Equal(t, 4, rating.Value)
	assert.Equal(t, []string{"recipe-1"}, repo.recounts)
}

func TestAddEnqueuesRecount(t *testing.T) {
	repo := newMemRatings("recipe-1")
	enqueuer := &stubEnqueuer{}
	service := ratings.NewService(nil, repo, enqueuer)
	ctx := context.Background()

	_, err := service.Add(ctx, "user-1", "recipe-1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"recipe-1"}, enqueuer.enqueued)
	assert.Empty(t, repo.recounts)
}

func TestAddFallsBackWhenEnqueueFails(t *testing.T) {
	repo := newMemRatings("recipe-1")
	enqueuer := &stubEnqueuer{fail: true}
	service := ratings.NewService(nil, repo, enqueuer)
	ctx := context.Background()

	_, err := service.Add(ctx, "user-1", "recipe-1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"recipe-1"}, repo.recounts)
}

func TestAddRejectsDuplicateAndUnknownRecipe(t *testing.T) {
	service := ratings.NewService(nil, newMemRatings("recipe-1"), nil)
	ctx := context.Background()

	_, err := service.Add(ctx, "user-1", "recipe-1", 4)
	require.NoError(t, err)

	_, err = service.Add(ctx, "user-1", "recipe-1", 5)
	assert.ErrorIs(t, err, ratings.ErrAlreadyRated)

	_, err = service.Add(ctx, "user-1", "missing", 4)
	assert.ErrorIs(t, err, ratings.ErrRecipeNotFound)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newMemRatings("recipe-1")
	service := ratings.NewService(nil, repo, nil)
	ctx := context.Background()

	rating, err := service.Add(ctx, "user-1", "recipe-1", 4)
	require.NoError(t, err)

	err = service.Delete(ctx, "user-2", rating.ID)
	assert.ErrorIs(t, err, ratings.ErrNotOwner)

	err = service.Delete(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, ratings.ErrNotFound)

	repo.recounts = nil
	require.NoError(t, service.Delete(ctx, "user-1", rating.ID))
	assert.Equal(t, []string{"recipe-1"}, repo.recounts)
}

func TestSummaryAveragesValues(t *testing.T) {
	service := ratings.NewService(nil, newMemRatings("recipe-1"), nil)
	ctx := context.Background()

	_, err := service.Add(ctx, "user-1", "recipe-1", 2)
	require.NoError(t, err)
	_, err = service.Add(ctx, "user-2", "recipe-1", 5)
	require.NoError(t, err)

	summary, err := service.Summary(ctx, "recipe-1")
	require.NoError(t, err)
	assert.Equal(t, "recipe-1", summary.RecipeID)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.5, summary.Average, 1e-9)

	empty, err := service.Summary(ctx, "recipe-1-empty")
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)
}

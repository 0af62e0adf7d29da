package ratings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access methods for ratings.
type RepositoryPort interface {
	Add(ctx context.Context, rating *Rating) error
	Get(ctx context.Context, id string) (*Rating, error)
	Delete(ctx context.Context, id string) error
	ListByRecipe(ctx context.Context, recipeID string) ([]Rating, error)
	ListByUser(ctx context.Context, userID string) ([]Rating, error)
	Summarize(ctx context.Context, recipeID string) (Summary, error)
	Recount(ctx context.Context, recipeID string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Add persists a rating. The (recipe_id, user_id) unique index enforces one
// rating per user per recipe; the recipe foreign key enforces existence.
func (r *Repository) Add(ctx context.Context, rating *Rating) error {
	rating.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ratings (id, recipe_id, user_id, value, created_at) VALUES ($1, $2, $3, $4, $5)`,
		rating.ID, rating.RecipeID, rating.UserID, rating.Value, rating.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrAlreadyRated
			case "23503":
				return ErrRecipeNotFound
			}
		}
		return err
	}
	return nil
}

// Get fetches a rating by id.
func (r *Repository) Get(ctx context.Context, id string) (*Rating, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, recipe_id, user_id, value, created_at FROM ratings WHERE id = $1`, id)
	var rating Rating
	if err := row.Scan(&rating.ID, &rating.RecipeID, &rating.UserID, &rating.Value, &rating.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// Delete removes a rating.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRecipe returns all ratings of a recipe, newest first.
func (r *Repository) ListByRecipe(ctx context.Context, recipeID string) ([]Rating, error) {
	return r.list(ctx, `SELECT id, recipe_id, user_id, value, created_at FROM ratings WHERE recipe_id = $1 ORDER BY created_at DESC`, recipeID)
}

// ListByUser returns all ratings a user has given, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Rating, error) {
	return r.list(ctx, `SELECT id, recipe_id, user_id, value, created_at FROM ratings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// Summarize computes the live aggregate for one recipe.
func (r *Repository) Summarize(ctx context.Context, recipeID string) (Summary, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(value), 0), COUNT(*) FROM ratings WHERE recipe_id = $1`, recipeID)
	summary := Summary{RecipeID: recipeID}
	if err := row.Scan(&summary.Average, &summary.Count); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Recount refreshes the denormalized aggregate on the recipe row.
func (r *Repository) Recount(ctx context.Context, recipeID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE recipes SET
			avg_rating = COALESCE((SELECT AVG(value) FROM ratings WHERE recipe_id = $1), 0),
			rating_count = (SELECT COUNT(*) FROM ratings WHERE recipe_id = $1)
		 WHERE id = $1`,
		recipeID,
	)
	return err
}

func (r *Repository) list(ctx context.Context, query, arg string) ([]Rating, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var rating Rating
		if err := rows.Scan(&rating.ID, &rating.RecipeID, &rating.UserID, &rating.Value, &rating.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

var _ RepositoryPort = (*Repository)(nil)

package recipes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forkful-app/forkful/internal/platform/db"
)

// RepositoryPort defines data access methods for recipes.
type RepositoryPort interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const recipeColumns = `id, title, ingredients, instructions, category, img_url, author_id, avg_rating, rating_count, created_at, updated_at`

// List returns all recipes, newest first.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var recipe Recipe
		if err := scanRecipe(rows, &recipe); err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get fetches a recipe by id.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id)
	var recipe Recipe
	if err := scanRecipe(row, &recipe); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a new recipe.
func (r *Repository) Create(ctx context.Context, recipe *Recipe) error {
	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`INSERT INTO recipes (id, title, ingredients, instructions, category, img_url, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		recipe.ID, recipe.Title, recipe.Ingredients, recipe.Instructions, recipe.Category,
		recipe.ImageURL, recipe.AuthorID, recipe.CreatedAt, recipe.UpdatedAt,
	)
	return err
}

// Update replaces the editable fields of a recipe.
func (r *Repository) Update(ctx context.Context, recipe *Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx,
		`UPDATE recipes SET title = $2, ingredients = $3, instructions = $4, category = $5, img_url = $6, updated_at = $7 WHERE id = $1`,
		recipe.ID, recipe.Title, recipe.Ingredients, recipe.Instructions, recipe.Category, recipe.ImageURL, recipe.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a recipe together with its ratings in one transaction.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE recipe_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanRecipe(row pgx.Row, recipe *Recipe) error {
	return row.Scan(
		&recipe.ID, &recipe.Title, &recipe.Ingredients, &recipe.Instructions, &recipe.Category,
		&recipe.ImageURL, &recipe.AuthorID, &recipe.AvgRating, &recipe.RatingCount,
		&recipe.CreatedAt, &recipe.UpdatedAt,
	)
}

var _ RepositoryPort = (*Repository)(nil)

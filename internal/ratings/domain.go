package ratings

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the rating does not exist.
	ErrNotFound = errors.New("rating not found")
	// ErrRecipeNotFound indicates the rated recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrAlreadyRated indicates the user already rated this recipe.
	ErrAlreadyRated = errors.New("recipe already rated by this user")
	// ErrNotOwner indicates a delete attempt on another user's rating.
	ErrNotOwner = errors.New("rating belongs to another user")
	// ErrValueOutOfRange indicates a rating outside 1..5.
	ErrValueOutOfRange = errors.New("rating must be between 1 and 5")
)

// Rating is a single 1..5 score a user gave a recipe.
type Rating struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"date"`
}

// Summary aggregates the ratings of one recipe.
type Summary struct {
	RecipeID string  `json:"recipe_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

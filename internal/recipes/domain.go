package recipes

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the recipe does not exist.
	ErrNotFound = errors.New("recipe not found")
	// ErrNotOwner indicates a write attempt by someone other than the author.
	ErrNotOwner = errors.New("recipe belongs to another user")
)

// Recipe represents a published recipe.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"img_url"`
	AuthorID     string    `json:"user_id"`
	AvgRating    float64   `json:"avg_rating"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const listCacheKey = "recipes:list"

// Cache stores the recipe listing in Redis so repeated reads skip postgres.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetList returns the cached listing, if present.
func (c *Cache) GetList(ctx context.Context) ([]Recipe, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, false
	}
	return recipes, true
}

// SetList stores the listing.
func (c *Cache) SetList(ctx context.Context, recipes []Recipe) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listCacheKey, data, c.ttl).Err()
}

// Bust drops the cached listing after a write.
func (c *Cache) Bust(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, listCacheKey).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

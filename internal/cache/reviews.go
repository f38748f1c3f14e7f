package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"modelreviews/internal/models"
)

// ReviewCache stores pages of a model's review collection. Each model has a
// generation counter embedded in its page keys; Invalidate bumps the counter
// so every cached page of the model goes stale at once and the next read
// fetches from the database.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReviewCache(client *redis.Client, ttl time.Duration) *ReviewCache {
	return &ReviewCache{client: client, ttl: ttl}
}

func generationKey(modelID int64) string {
	return fmt.Sprintf("reviews:model:%d:gen", modelID)
}

func pageKey(modelID int64, generation int64, limit, offset int) string {
	return fmt.Sprintf("reviews:model:%d:g%d:%d:%d", modelID, generation, limit, offset)
}

func (c *ReviewCache) generation(ctx context.Context, modelID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(modelID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached page, with ok false on a miss. The generation it
// read comes back either way and must be handed to Set, so a page fetched
// before an Invalidate is written under a key no reader uses anymore.
func (c *ReviewCache) Get(ctx context.Context, modelID int64, limit, offset int) (reviews []models.Review, gen int64, ok bool, err error) {
	gen, err = c.generation(ctx, modelID)
	if err != nil {
		return nil, 0, false, fmt.Errorf("read generation: %w", err)
	}

	raw, err := c.client.Get(ctx, pageKey(modelID, gen, limit, offset)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("read page: %w", err)
	}

	if err := json.Unmarshal(raw, &reviews); err != nil {
		return nil, gen, false, fmt.Errorf("decode page: %w", err)
	}
	return reviews, gen, true, nil
}

// Set stores a page under the generation returned by the Get that missed.
func (c *ReviewCache) Set(ctx context.Context, modelID, gen int64, limit, offset int, reviews []models.Review) error {
	raw, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	return c.client.Set(ctx, pageKey(modelID, gen, limit, offset), raw, c.ttl).Err()
}

// Invalidate marks every cached page of the model stale.
func (c *ReviewCache) Invalidate(ctx context.Context, modelID int64) error {
	if err := c.client.Incr(ctx, generationKey(modelID)).Err(); err != nil {
		return fmt.Errorf("bump generation: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anushST/landset-nasa/internal/domain"
)

// RedisCache is a ResultCache backed by Redis string keys with expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) SetPending(ctx context.Context, requestID string) error {
	payload, err := json.Marshal(domain.SearchResult{Status: domain.ResultStatusPending})
	if err != nil {
		return fmt.Errorf("failed to marshal pending entry: %w", err)
	}
	// SETNX: a replayed request id must not clobber an existing entry.
	if err := c.client.SetNX(ctx, Key(requestID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending entry: %w", err)
	}
	return nil
}

func (c *RedisCache) SetDone(ctx context.Context, requestID string, features []domain.SceneFeature) error {
	return c.set(ctx, requestID, domain.SearchResult{
		Status:   domain.ResultStatusDone,
		Features: features,
	})
}

func (c *RedisCache) SetFailed(ctx context.Context, requestID string, message string) error {
	return c.set(ctx, requestID, domain.SearchResult{
		Status: domain.ResultStatusFailed,
		Error:  message,
	})
}

func (c *RedisCache) set(ctx context.Context, requestID string, result domain.SearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result entry: %w", err)
	}
	if err := c.client.Set(ctx, Key(requestID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set result entry: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, requestID string) (*domain.SearchResult, error) {
	payload, err := c.client.Get(ctx, Key(requestID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result entry: %w", err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result entry: %w", err)
	}
	return &result, nil
}

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/anushST/landset-nasa/internal/domain"
)

// RedisQueue is a Queue backed by a Redis list. Producers push to the
// right, consumers LPOP from the left, so order is FIFO and the pop is
// exclusive.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a RedisQueue on the given list key. An empty
// key falls back to DefaultKey.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, req domain.SearchRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal search request: %w", err)
	}

	if err := q.client.RPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue search request: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*domain.SearchRequest, error) {
	payload, err := q.client.LPop(ctx, q.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop search request: %w", err)
	}

	var req domain.SearchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		// The entry has already been popped; surface a ParseError so
		// the worker can log and drop it without crashing the loop.
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			"malformed search request payload", err)
	}

	return &req, nil
}

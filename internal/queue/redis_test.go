//go:build integration

package queue

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/testutil"
)

func TestRedisQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRedisContainer(ctx, t)
	defer rc.Terminate(ctx)

	client := redis.NewClient(&redis.Options{Addr: rc.Addr()})
	defer client.Close()

	q := NewRedisQueue(client, DefaultKey)

	first := domain.SearchRequest{RequestID: "req-1", Longitude: 69.25, Latitude: 41.33, MaxCloud: 100, TimeRange: "2024-09-01/2024-09-30"}
	second := domain.SearchRequest{RequestID: "req-2", Longitude: 69.25, Latitude: 41.33, MaxCloud: 100, TimeRange: "2024-09-01/2024-09-30"}

	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req-1", got.RequestID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req-2", got.RequestID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisQueue_MalformedEntry(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRedisContainer(ctx, t)
	defer rc.Terminate(ctx)

	client := redis.NewClient(&redis.Options{Addr: rc.Addr()})
	defer client.Close()

	require.NoError(t, client.RPush(ctx, DefaultKey, "{not json").Err())

	q := NewRedisQueue(client, DefaultKey)

	_, err := q.Dequeue(ctx)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)

	// the malformed entry is consumed, not stuck at the head
	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

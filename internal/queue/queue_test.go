package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushST/landset-nasa/internal/domain"
)

func TestMemoryQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	for i := 0; i < 3; i++ {
		req := domain.SearchRequest{RequestID: fmt.Sprintf("req-%d", i)}
		require.NoError(t, q.Enqueue(ctx, req))
	}

	for i := 0; i < 3; i++ {
		req, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, fmt.Sprintf("req-%d", i), req.RequestID)
	}

	req, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Nil(t, req, "empty queue must yield nil, nil")
}

func TestMemoryQueue_ConcurrentDequeue(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	const n = 100
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(ctx, domain.SearchRequest{RequestID: fmt.Sprintf("req-%d", i)}))
	}

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				req, err := q.Dequeue(ctx)
				assert.NoError(t, err)
				if req == nil {
					return
				}
				mu.Lock()
				seen[req.RequestID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, "request %s dequeued more than once", id)
	}
}

package queue

import (
	"context"
	"sync"

	"github.com/anushST/landset-nasa/internal/domain"
)

// MemoryQueue is an in-process Queue for tests and single-node runs.
type MemoryQueue struct {
	mu      sync.Mutex
	pending []domain.SearchRequest
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, req domain.SearchRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, req)
	return nil
}

func (q *MemoryQueue) Dequeue(_ context.Context) (*domain.SearchRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, nil
	}
	req := q.pending[0]
	q.pending = q.pending[1:]
	return &req, nil
}

// Len reports the number of pending requests.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

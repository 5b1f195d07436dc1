// Package queue provides the shared search-request queue that bridges
// the API layer (producer) and the scene workers (consumers).
package queue

import (
	"context"

	"github.com/anushST/landset-nasa/internal/domain"
)

// DefaultKey is the Redis list shared by the API and the scene workers.
const DefaultKey = "request_queue"

// Queue is a FIFO of search requests. Dequeue is non-blocking and
// atomic: under N concurrent consumers no two of them ever receive the
// same request. An empty queue yields (nil, nil).
type Queue interface {
	Enqueue(ctx context.Context, req domain.SearchRequest) error
	Dequeue(ctx context.Context) (*domain.SearchRequest, error)
}

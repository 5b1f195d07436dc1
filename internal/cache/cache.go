// Package cache provides the ephemeral result cache keyed by request
// id. Entries carry an explicit status (pending, done, failed) so the
// status endpoint can tell "still running" from "failed"; absence
// means expired or never requested. The cache must never be relied on
// for correctness beyond its TTL window.
package cache

import (
	"context"
	"time"

	"github.com/anushST/landset-nasa/internal/domain"
)

// DefaultTTL is how long a finished result stays readable before the
// caller must re-search.
const DefaultTTL = 120 * time.Second

// ResultCache stores per-request search results with a TTL.
//
// SetPending is a no-op if the key already exists, so a replayed
// request id can never clobber a finished result. SetDone and
// SetFailed replace the pending entry; request ids are single-use so
// no writer ever follows a done entry.
type ResultCache interface {
	SetPending(ctx context.Context, requestID string) error
	SetDone(ctx context.Context, requestID string, features []domain.SceneFeature) error
	SetFailed(ctx context.Context, requestID string, message string) error

	// Get returns the cached result, or (nil, nil) when the key is
	// absent or expired.
	Get(ctx context.Context, requestID string) (*domain.SearchResult, error)
}

// Key builds the cache key for a request id.
func Key(requestID string) string {
	return "result:" + requestID
}

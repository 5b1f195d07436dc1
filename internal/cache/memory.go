package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/anushST/landset-nasa/internal/domain"
)

// MemoryCache is an in-process ResultCache for tests and single-node
// runs. Entries expire after the configured TTL just like the Redis
// backend.
type MemoryCache struct {
	entries *ttlcache.Cache[string, domain.SearchResult]
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := ttlcache.New(
		ttlcache.WithTTL[string, domain.SearchResult](ttl),
		ttlcache.WithDisableTouchOnHit[string, domain.SearchResult](),
	)
	go c.Start()
	return &MemoryCache{entries: c}
}

// Stop halts the background expiry loop.
func (c *MemoryCache) Stop() {
	c.entries.Stop()
}

func (c *MemoryCache) SetPending(_ context.Context, requestID string) error {
	if c.entries.Has(Key(requestID)) {
		return nil
	}
	c.entries.Set(Key(requestID), domain.SearchResult{Status: domain.ResultStatusPending}, ttlcache.DefaultTTL)
	return nil
}

func (c *MemoryCache) SetDone(_ context.Context, requestID string, features []domain.SceneFeature) error {
	c.entries.Set(Key(requestID), domain.SearchResult{
		Status:   domain.ResultStatusDone,
		Features: features,
	}, ttlcache.DefaultTTL)
	return nil
}

func (c *MemoryCache) SetFailed(_ context.Context, requestID string, message string) error {
	c.entries.Set(Key(requestID), domain.SearchResult{
		Status: domain.ResultStatusFailed,
		Error:  message,
	}, ttlcache.DefaultTTL)
	return nil
}

func (c *MemoryCache) Get(_ context.Context, requestID string) (*domain.SearchResult, error) {
	item := c.entries.Get(Key(requestID))
	if item == nil {
		return nil, nil
	}
	result := item.Value()
	return &result, nil
}

package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anushST/landset-nasa/internal/cache"
	"github.com/anushST/landset-nasa/internal/catalog"
	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/geo"
	"github.com/anushST/landset-nasa/internal/queue"
)

// SceneSearcher is the catalog dependency of the scene worker.
type SceneSearcher interface {
	SearchScenes(ctx context.Context, q catalog.ScenesQuery) ([]domain.SceneFeature, error)
}

// SceneSearchWorker drains the shared request queue, runs the catalog
// search for each request, and publishes the outcome to the result
// cache keyed by request id. Requests are independent, so N worker
// instances may share one queue; the atomic pop guarantees each
// request is handled once.
type SceneSearchWorker struct {
	queue      queue.Queue
	results    cache.ResultCache
	searcher   SceneSearcher
	delta      float64
	collection string
}

// NewSceneSearchWorker creates a new SceneSearchWorker instance.
// delta is the search-window half-width in degrees; collection is the
// catalog collection id to search.
func NewSceneSearchWorker(q queue.Queue, results cache.ResultCache, searcher SceneSearcher, delta float64, collection string) *SceneSearchWorker {
	if delta <= 0 {
		delta = geo.DefaultSearchDelta
	}
	return &SceneSearchWorker{
		queue:      q,
		results:    results,
		searcher:   searcher,
		delta:      delta,
		collection: collection,
	}
}

// Process implements the Processor interface. It drains the queue:
// requests are popped until the queue is empty, then the worker goes
// back to idle polling. A malformed request is logged and dropped; it
// never crashes the loop.
func (w *SceneSearchWorker) Process(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := w.queue.Dequeue(ctx)
		if err != nil {
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeValidation {
				log.Printf("scene worker: dropping malformed request: %v", err)
				continue
			}
			return fmt.Errorf("failed to dequeue search request: %w", err)
		}
		if req == nil {
			return nil
		}

		w.processRequest(ctx, req)
	}
}

func (w *SceneSearchWorker) processRequest(ctx context.Context, req *domain.SearchRequest) {
	if err := req.Validate(); err != nil {
		log.Printf("scene worker: dropping invalid request %s: %v", req.RequestID, err)
		w.fail(ctx, req.RequestID, err)
		return
	}

	dateRange, err := geo.NormalizeDateRange(req.TimeRange)
	if err != nil {
		log.Printf("scene worker: bad time range for request %s: %v", req.RequestID, err)
		w.fail(ctx, req.RequestID, err)
		return
	}

	query := catalog.ScenesQuery{
		Geometry:   geo.BuildSearchWindow(req.Longitude, req.Latitude, w.delta),
		DateRange:  dateRange,
		MinCloud:   req.MinCloud,
		MaxCloud:   req.MaxCloud,
		Collection: w.collection,
	}

	features, err := w.searcher.SearchScenes(ctx, query)
	if err != nil {
		log.Printf("scene worker: catalog search failed for request %s: %v", req.RequestID, err)
		w.fail(ctx, req.RequestID, err)
		return
	}

	if err := w.results.SetDone(ctx, req.RequestID, features); err != nil {
		log.Printf("scene worker: failed to cache result for request %s: %v", req.RequestID, err)
		return
	}

	log.Printf("scene worker: request %s done, %d scenes", req.RequestID, len(features))
}

func (w *SceneSearchWorker) fail(ctx context.Context, requestID string, cause error) {
	if requestID == "" {
		return
	}
	if err := w.results.SetFailed(ctx, requestID, cause.Error()); err != nil {
		log.Printf("scene worker: failed to cache failure for request %s: %v", requestID, err)
	}
}

package jobs

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/telemetry"
)

const (
	// DefaultCrawlMaxDays bounds the days walked per satellite in one pass.
	DefaultCrawlMaxDays = 100
	// DefaultCrawlInterval is the sleep between full passes.
	DefaultCrawlInterval = 3 * time.Hour
)

// PlanSearcher is the catalog dependency of the crawler.
type PlanSearcher interface {
	SearchPlan(ctx context.Context, satellite string, at time.Time) ([]domain.PlannedAcquisition, error)
}

// AcquisitionStore is the persistence dependency of the crawler.
type AcquisitionStore interface {
	AppendAcquisitions(ctx context.Context, satellite string, day time.Time, records []domain.PlannedAcquisition) error
	LatestWatermark(ctx context.Context, satellite string) (*time.Time, error)
}

// PlanCrawler walks forward in time per tracked satellite, persists
// newly discovered acquisitions, and records crawl watermarks so a
// restart resumes after the last date that actually had data.
//
// Satellites are independent, so each one crawls in its own goroutine;
// a satellite's days are walked sequentially inside that goroutine, so
// its watermark writes stay strictly ordered.
type PlanCrawler struct {
	store      AcquisitionStore
	searcher   PlanSearcher
	satellites []string
	maxDays    int
	now        func() time.Time
}

// NewPlanCrawler creates a new PlanCrawler instance.
func NewPlanCrawler(store AcquisitionStore, searcher PlanSearcher, satellites []string, maxDays int) *PlanCrawler {
	if maxDays <= 0 {
		maxDays = DefaultCrawlMaxDays
	}
	return &PlanCrawler{
		store:      store,
		searcher:   searcher,
		satellites: satellites,
		maxDays:    maxDays,
		now:        time.Now,
	}
}

// Process implements the Processor interface: one full pass over all
// tracked satellites. A failure on one satellite never aborts the
// others; only context cancellation stops the pass.
func (c *PlanCrawler) Process(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, satellite := range c.satellites {
		g.Go(func() error {
			return c.crawlSatellite(ctx, satellite)
		})
	}

	return g.Wait()
}

func (c *PlanCrawler) crawlSatellite(ctx context.Context, satellite string) error {
	watermark, err := c.store.LatestWatermark(ctx, satellite)
	if err != nil {
		log.Printf("crawler: failed to read watermark for %s, skipping pass: %v", satellite, err)
		return nil
	}

	var day time.Time
	if watermark != nil {
		day = truncateToDay(*watermark).AddDate(0, 0, 1)
	} else {
		day = truncateToDay(c.now().UTC())
	}

	for step := 0; step < c.maxDays; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		acquisitions, err := c.searcher.SearchPlan(ctx, satellite, day)
		if err != nil {
			// Treated as an empty day: no watermark write, so the date
			// is retried on the next pass unless a later day advances
			// the watermark past it.
			log.Printf("crawler: plan search failed for %s on %s: %v", satellite, day.Format("2006-01-02"), err)
		} else if len(acquisitions) > 0 {
			if err := c.store.AppendAcquisitions(ctx, satellite, day, acquisitions); err != nil {
				log.Printf("crawler: failed to persist %d acquisitions for %s on %s, aborting pass: %v",
					len(acquisitions), satellite, day.Format("2006-01-02"), err)
				telemetry.CaptureError(ctx, err)
				return nil
			}
			log.Printf("crawler: persisted %d acquisitions for %s on %s", len(acquisitions), satellite, day.Format("2006-01-02"))
		}

		day = day.AddDate(0, 0, 1)
	}

	return nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

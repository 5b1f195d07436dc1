package jobs

import (
	"context"
	"log"
	"time"
)

// Processor performs one unit of background work: draining the request
// queue once, or running one full crawl pass.
type Processor interface {
	Process(ctx context.Context) error
}

// Worker drives a Processor until stopped: one pass at startup, then
// one per interval. A
// failed iteration is logged and the loop continues; only Stop or
// context cancellation ends it, and always between iterations, never
// mid-operation.
type Worker struct {
	name      string
	processor Processor
	interval  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewWorker creates a new Worker instance
func NewWorker(name string, processor Processor, interval time.Duration) *Worker {
	return &Worker{
		name:      name,
		processor: processor,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start begins the worker's polling loop
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("%s worker started with interval %v", w.name, w.interval)

	// First pass runs immediately; the interval separates passes, it
	// does not delay the first one.
	if err := w.processor.Process(ctx); err != nil {
		log.Printf("%s worker: error processing: %v", w.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s worker stopped: context cancelled", w.name)
			return
		case <-w.stopChan:
			log.Printf("%s worker stopped: stop signal received", w.name)
			return
		case <-ticker.C:
			if err := w.processor.Process(ctx); err != nil {
				log.Printf("%s worker: error processing: %v", w.name, err)
			}
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Printf("%s worker shutdown complete", w.name)
}

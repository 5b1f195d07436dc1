package domain

import "time"

// Acquisition is one append-only row of the acquisition log: a planned
// or completed imaging of a fixed WRS path/row cell by a satellite.
type Acquisition struct {
	ID         int64
	Satellite  string
	Path       string
	Row        string
	AcquiredAt time.Time
}

// PlannedAcquisition is one feature of an acquisition-plan response
// before it is persisted.
type PlannedAcquisition struct {
	Satellite string
	Path      string
	Row       string
	BeginTime time.Time
}

// CrawlWatermark records the latest successfully processed crawl date
// for a satellite. The read path takes the maximum HasInfoDate per
// satellite; that is the resume point after restart.
type CrawlWatermark struct {
	ID          int64
	Satellite   string
	HasInfoDate time.Time
}

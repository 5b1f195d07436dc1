package domain

// SearchRequest is one unit of work popped from the request queue.
// It is produced by the API layer, consumed exactly once by the scene
// worker, and never persisted.
type SearchRequest struct {
	RequestID string  `json:"request_id"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	MinCloud  float64 `json:"min_cloud"`
	MaxCloud  float64 `json:"max_cloud"`
	TimeRange string  `json:"time_range"`
}

// Validate checks the request fields before any catalog call is made.
func (r *SearchRequest) Validate() error {
	if r.RequestID == "" {
		return ErrMissingRequestID
	}
	if r.Longitude < -180 || r.Longitude > 180 || r.Latitude < -90 || r.Latitude > 90 {
		return ErrInvalidCoordinates
	}
	if r.MinCloud < 0 || r.MaxCloud > 100 || r.MinCloud > r.MaxCloud {
		return ErrInvalidCloudCover
	}
	if r.TimeRange == "" {
		return ErrMissingRequiredField
	}
	return nil
}

// SceneProperties carries the provenance fields of one catalog feature.
type SceneProperties struct {
	Datetime     string   `json:"datetime"`
	Platform     string   `json:"platform"`
	CloudCover   *float64 `json:"eo:cloud_cover"`
	WrsPath      string   `json:"landsat:wrs_path"`
	WrsRow       string   `json:"landsat:wrs_row"`
	SunAzimuth   *float64 `json:"view:sun_azimuth"`
	SunElevation *float64 `json:"view:sun_elevation"`
}

// SceneFeature is one scene record returned by the item search.
type SceneFeature struct {
	ID         string          `json:"id"`
	Properties SceneProperties `json:"properties"`
}

// ResultStatus is the lifecycle state of a cached search result.
type ResultStatus string

const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusDone    ResultStatus = "done"
	ResultStatusFailed  ResultStatus = "failed"
)

// SearchResult is the cache entry bridging the asynchronous worker and
// the synchronous status endpoint. Once Status is done the entry is
// immutable; request ids are single-use.
type SearchResult struct {
	Status   ResultStatus   `json:"status"`
	Features []SceneFeature `json:"features,omitempty"`
	Error    string         `json:"error,omitempty"`
}

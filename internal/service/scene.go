package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/anushST/landset-nasa/internal/cache"
	"github.com/anushST/landset-nasa/internal/catalog"
	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/geo"
	"github.com/anushST/landset-nasa/internal/queue"
	"github.com/anushST/landset-nasa/internal/telemetry"
)

// SceneSearchInput holds the client-facing search parameters.
type SceneSearchInput struct {
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	TimeRange     string   `json:"time_range"`
	MinCloudCover *float64 `json:"min_cloud_cover"`
	MaxCloudCover *float64 `json:"max_cloud_cover"`
}

// SceneSummary is the client-facing projection of one catalog feature.
type SceneSummary struct {
	ID            string   `json:"id"`
	CloudCover    *float64 `json:"cloud_cover"`
	SceneDatetime string   `json:"scene_datetime"`
	Platform      string   `json:"platform"`
	WrsPath       string   `json:"wrs_path"`
	WrsRow        string   `json:"wrs_row"`
	SunAzimuth    *float64 `json:"sun_azimuth"`
	SunElevation  *float64 `json:"sun_elevation"`
	Thumbnail     string   `json:"thumbnail"`
}

// SceneStatus is the status-poll outcome for one request id.
type SceneStatus struct {
	Status   domain.ResultStatus
	Error    string
	Products []SceneSummary
}

// SceneService accepts search requests on behalf of the worker and
// reads back their cached results.
type SceneService struct {
	queue   queue.Queue
	results cache.ResultCache
}

func NewSceneService(q queue.Queue, results cache.ResultCache) *SceneService {
	return &SceneService{queue: q, results: results}
}

// RequestScenes validates the input, marks the request pending in the
// result cache, and enqueues it for the scene worker. It returns the
// generated single-use request id.
func (s *SceneService) RequestScenes(ctx context.Context, input SceneSearchInput) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "SceneService.RequestScenes", telemetry.SpanAttributes{
		Operation: "request",
	})
	defer span.End()

	minCloud := 0.0
	if input.MinCloudCover != nil {
		minCloud = *input.MinCloudCover
	}
	maxCloud := 100.0
	if input.MaxCloudCover != nil {
		maxCloud = *input.MaxCloudCover
	}

	req := domain.SearchRequest{
		RequestID: uuid.NewString(),
		Longitude: input.Longitude,
		Latitude:  input.Latitude,
		MinCloud:  minCloud,
		MaxCloud:  maxCloud,
		TimeRange: input.TimeRange,
	}

	if err := req.Validate(); err != nil {
		return "", err
	}
	// Fail fast on a malformed range instead of letting the worker
	// discover it asynchronously.
	if _, err := geo.NormalizeDateRange(req.TimeRange); err != nil {
		return "", err
	}

	if err := s.results.SetPending(ctx, req.RequestID); err != nil {
		return "", fmt.Errorf("failed to mark request pending: %w", err)
	}
	if err := s.queue.Enqueue(ctx, req); err != nil {
		return "", fmt.Errorf("failed to enqueue search request: %w", err)
	}

	return req.RequestID, nil
}

// GetStatus reads the cached result for a request id. An absent or
// expired entry reports as pending; the poller cannot tell the two
// apart and retries or times out on its own.
func (s *SceneService) GetStatus(ctx context.Context, requestID string) (*SceneStatus, error) {
	if requestID == "" {
		return nil, domain.ErrMissingRequestID
	}

	ctx, span := telemetry.StartSpan(ctx, "SceneService.GetStatus", telemetry.SpanAttributes{
		RequestID: requestID,
		Operation: "status",
	})
	defer span.End()

	result, err := s.results.Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to read result cache: %w", err)
	}
	if result == nil {
		return &SceneStatus{Status: domain.ResultStatusPending}, nil
	}

	status := &SceneStatus{Status: result.Status, Error: result.Error}
	if result.Status == domain.ResultStatusDone {
		status.Products = summarize(result.Features)
	}
	return status, nil
}

func summarize(features []domain.SceneFeature) []SceneSummary {
	summaries := make([]SceneSummary, 0, len(features))
	for _, f := range features {
		summaries = append(summaries, SceneSummary{
			ID:            f.ID,
			CloudCover:    f.Properties.CloudCover,
			SceneDatetime: f.Properties.Datetime,
			Platform:      f.Properties.Platform,
			WrsPath:       f.Properties.WrsPath,
			WrsRow:        f.Properties.WrsRow,
			SunAzimuth:    f.Properties.SunAzimuth,
			SunElevation:  f.Properties.SunElevation,
			Thumbnail:     catalog.ThumbnailURL(f.ID),
		})
	}
	return summaries
}

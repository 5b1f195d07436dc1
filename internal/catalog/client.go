// Package catalog implements the clients for the remote imagery
// catalog: STAC item search and the acquisition-plan endpoint.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/geo"
)

// DefaultTimeout bounds every catalog request.
const DefaultTimeout = 30 * time.Second

// ScenesQuery holds the parameters of one item search.
type ScenesQuery struct {
	Geometry   geo.Polygon
	DateRange  geo.DateRange
	MinCloud   float64
	MaxCloud   float64
	Collection string
}

// Client talks to the remote catalog. All calls are context-bound and
// time-limited; a non-200 response surfaces as a CatalogError carrying
// the status code. The caller owns retry policy.
type Client struct {
	stacURL    string
	planURL    string
	planAPIKey string
	httpClient *http.Client
}

// NewClient creates a catalog client. stacURL is the STAC server root
// (search is POSTed to <stacURL>/search); planURL is the acquisition
// plan endpoint queried with planAPIKey.
func NewClient(stacURL, planURL, planAPIKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		stacURL:    stacURL,
		planURL:    planURL,
		planAPIKey: planAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type sceneSearchPayload struct {
	Intersects  geo.Polygon    `json:"intersects"`
	Datetime    string         `json:"datetime"`
	Query       map[string]any `json:"query"`
	Collections []string       `json:"collections"`
}

type sceneSearchResponse struct {
	Features []domain.SceneFeature `json:"features"`
}

// SearchScenes performs a STAC item search. An empty features array is
// a successful result, not an error.
func (c *Client) SearchScenes(ctx context.Context, q ScenesQuery) ([]domain.SceneFeature, error) {
	payload := sceneSearchPayload{
		Intersects: q.Geometry,
		Datetime:   q.DateRange.String(),
		Query: map[string]any{
			"eo:cloud_cover": map[string]float64{
				"gte": q.MinCloud,
				"lte": q.MaxCloud,
			},
		},
		Collections: []string{q.Collection},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.stacURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewCatalogTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("catalog search returned status %d", resp.StatusCode)
		return nil, domain.NewCatalogError(resp.StatusCode)
	}

	var result sceneSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return result.Features, nil
}

type planFeature struct {
	Properties struct {
		Path      string `json:"path"`
		Row       string `json:"row"`
		Satellite string `json:"satellite"`
		BeginTime string `json:"begin_time"`
	} `json:"properties"`
}

type planResponse struct {
	Features []planFeature `json:"features"`
}

// SearchPlan queries the acquisition-plan endpoint for one satellite
// and one instant. Features with an unparseable begin_time are logged
// and skipped.
func (c *Client) SearchPlan(ctx context.Context, satellite string, at time.Time) ([]domain.PlannedAcquisition, error) {
	u, err := url.Parse(c.planURL)
	if err != nil {
		return nil, fmt.Errorf("invalid plan URL: %w", err)
	}

	query := u.Query()
	query.Set("api_key", c.planAPIKey)
	query.Set("satellites", satellite)
	query.Set("datetime", at.UTC().Format(time.RFC3339))
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewCatalogTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("acquisition plan search for %s returned status %d", satellite, resp.StatusCode)
		return nil, domain.NewCatalogError(resp.StatusCode)
	}

	var result planResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode plan response: %w", err)
	}

	acquisitions := make([]domain.PlannedAcquisition, 0, len(result.Features))
	for _, f := range result.Features {
		begin, err := time.Parse(time.RFC3339, f.Properties.BeginTime)
		if err != nil {
			log.Printf("skipping plan feature with bad begin_time %q: %v", f.Properties.BeginTime, err)
			continue
		}
		acquisitions = append(acquisitions, domain.PlannedAcquisition{
			Satellite: f.Properties.Satellite,
			Path:      f.Properties.Path,
			Row:       f.Properties.Row,
			BeginTime: begin.UTC(),
		})
	}

	return acquisitions, nil
}

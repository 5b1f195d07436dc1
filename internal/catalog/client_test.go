package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/geo"
)

func testQuery() ScenesQuery {
	dr, _ := geo.NormalizeDateRange("2024-01-01/2024-01-31")
	return ScenesQuery{
		Geometry:   geo.BuildSearchWindow(68.7659, 38.5548, 0.04),
		DateRange:  dr,
		MinCloud:   0,
		MaxCloud:   100,
		Collection: "landsat-c2l2-sr",
	}
}

func TestSearchScenes_RequestShape(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", 0)
	features, err := client.SearchScenes(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, features)

	assert.Equal(t, "2024-01-01T00:00:00Z/2024-01-31T00:00:00Z", captured["datetime"])
	assert.Equal(t, []any{"landsat-c2l2-sr"}, captured["collections"])

	query := captured["query"].(map[string]any)
	cloud := query["eo:cloud_cover"].(map[string]any)
	assert.Equal(t, float64(0), cloud["gte"])
	assert.Equal(t, float64(100), cloud["lte"])

	geom := captured["intersects"].(map[string]any)
	assert.Equal(t, "Polygon", geom["type"])
}

// The configured STAC URL is the server root; the client owns the
// /search suffix. A root that already carries a path, like the
// landsatlook deployment's /stac-server, must compose cleanly.
func TestSearchScenes_RootWithPath(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/stac-server", "", "", 0)
	_, err := client.SearchScenes(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, "/stac-server/search", gotPath)
}

func TestSearchScenes_Features(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[
			{"id":"LC08_L2SP_154033_20240924_20240928_02_T1","properties":{
				"datetime":"2024-09-24T05:50:00Z","platform":"LANDSAT_8",
				"eo:cloud_cover":12.5,"landsat:wrs_path":"154","landsat:wrs_row":"033",
				"view:sun_azimuth":151.2,"view:sun_elevation":44.8}},
			{"id":"LC09_L2SP_154033_20240916_20240918_02_T1","properties":{
				"datetime":"2024-09-16T05:50:00Z","platform":"LANDSAT_9",
				"eo:cloud_cover":3.1,"landsat:wrs_path":"154","landsat:wrs_row":"033"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", 0)
	features, err := client.SearchScenes(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, features, 2)

	first := features[0]
	assert.Equal(t, "LC08_L2SP_154033_20240924_20240928_02_T1", first.ID)
	assert.Equal(t, "LANDSAT_8", first.Properties.Platform)
	require.NotNil(t, first.Properties.CloudCover)
	assert.Equal(t, 12.5, *first.Properties.CloudCover)
	assert.Equal(t, "154", first.Properties.WrsPath)

	second := features[1]
	assert.Nil(t, second.Properties.SunAzimuth)
}

func TestSearchScenes_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", 0)
	_, err := client.SearchScenes(context.Background(), testQuery())
	require.Error(t, err)

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, http.StatusServiceUnavailable, catErr.Status)
}

func TestSearchScenes_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "", 50*time.Millisecond)
	_, err := client.SearchScenes(context.Background(), testQuery())
	require.Error(t, err)

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Zero(t, catErr.Status)
}

func TestSearchPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		require.Equal(t, "secret", q.Get("api_key"))
		require.Equal(t, "Landsat-8", q.Get("satellites"))
		require.Equal(t, "2024-01-06T00:00:00Z", q.Get("datetime"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[
			{"properties":{"path":"160","row":"41","satellite":"Landsat-8","begin_time":"2024-01-06T04:46:34Z"}},
			{"properties":{"path":"160","row":"42","satellite":"Landsat-8","begin_time":"not-a-time"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "secret", 0)
	day := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	acqs, err := client.SearchPlan(context.Background(), "Landsat-8", day)
	require.NoError(t, err)

	// The feature with the unparseable begin_time is skipped.
	require.Len(t, acqs, 1)
	assert.Equal(t, "160", acqs[0].Path)
	assert.Equal(t, "41", acqs[0].Row)
	assert.Equal(t, "Landsat-8", acqs[0].Satellite)
	assert.Equal(t, time.Date(2024, 1, 6, 4, 46, 34, 0, time.UTC), acqs[0].BeginTime)
}

func TestSearchPlan_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "secret", 0)
	_, err := client.SearchPlan(context.Background(), "Landsat-8", time.Now())

	var catErr *domain.CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, http.StatusBadGateway, catErr.Status)
}

func TestThumbnailURL(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		want      string
	}{
		{
			"landsat 8",
			"LC08_L2SP_154033_20240924_20240928_02_T1",
			thumbnailBaseURL + "LC08_L1TP_154033_20240924_20240928_02",
		},
		{
			"landsat 9 swaps processing date",
			"LC09_L2SP_154033_20240916_20240918_02_T1",
			thumbnailBaseURL + "LC09_L1TP_154033_20240916_20240916_02",
		},
		{"malformed", "not-a-product-id", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThumbnailURL(tt.productID))
		})
	}
}

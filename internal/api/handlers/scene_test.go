package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/service"
	"github.com/anushST/landset-nasa/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSceneService struct {
	mock.Mock
}

func (m *MockSceneService) RequestScenes(ctx context.Context, input service.SceneSearchInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockSceneService) GetStatus(ctx context.Context, requestID string) (*service.SceneStatus, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SceneStatus), args.Error(1)
}

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) SceneAssets(ctx context.Context, productID string) ([]storage.SceneAsset, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.SceneAsset), args.Error(1)
}

func TestSceneHandler_Search_Success(t *testing.T) {
	mockSvc := new(MockSceneService)
	handler := NewSceneHandler(mockSvc, nil)

	mockSvc.On("RequestScenes", mock.Anything, mock.MatchedBy(func(input service.SceneSearchInput) bool {
		return input.Longitude == 69.25 && input.Latitude == 41.33 && input.TimeRange == "2024-09-01/2024-09-30"
	})).Return("req-123", nil)

	body := `{"longitude":69.25,"latitude":41.33,"time_range":"2024-09-01/2024-09-30","max_cloud_cover":40}`
	req := httptest.NewRequest(http.MethodPost, "/scenes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var result SearchScenesResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "req-123", result.RequestID)
	mockSvc.AssertExpectations(t)
}

func TestSceneHandler_Search_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing coordinates", body: `{"time_range":"2024-09-01/2024-09-30"}`},
		{name: "missing latitude", body: `{"longitude":69.25,"time_range":"2024-09-01/2024-09-30"}`},
		{name: "missing time range", body: `{"longitude":69.25,"latitude":41.33}`},
		{name: "malformed body", body: `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockSceneService)
			handler := NewSceneHandler(mockSvc, nil)

			req := httptest.NewRequest(http.MethodPost, "/scenes", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Search(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockSvc.AssertNotCalled(t, "RequestScenes")
		})
	}
}

func TestSceneHandler_Search_ValidationError(t *testing.T) {
	mockSvc := new(MockSceneService)
	handler := NewSceneHandler(mockSvc, nil)

	mockSvc.On("RequestScenes", mock.Anything, mock.Anything).Return("", domain.ErrInvalidDateRange)

	body := `{"longitude":69.25,"latitude":41.33,"time_range":"not-a-range"}`
	req := httptest.NewRequest(http.MethodPost, "/scenes", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSceneHandler_Status_MissingRequestID(t *testing.T) {
	handler := NewSceneHandler(new(MockSceneService), nil)

	req := httptest.NewRequest(http.MethodGet, "/scenes/status", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSceneHandler_Status_InProgress(t *testing.T) {
	mockSvc := new(MockSceneService)
	handler := NewSceneHandler(mockSvc, nil)

	mockSvc.On("GetStatus", mock.Anything, "req-123").
		Return(&service.SceneStatus{Status: domain.ResultStatusPending}, nil)

	req := httptest.NewRequest(http.MethodGet, "/scenes/status?request_id=req-123", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var result SceneStatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", result.Status)
}

func TestSceneHandler_Status_Failed(t *testing.T) {
	mockSvc := new(MockSceneService)
	handler := NewSceneHandler(mockSvc, nil)

	mockSvc.On("GetStatus", mock.Anything, "req-123").
		Return(&service.SceneStatus{
			Status: domain.ResultStatusFailed,
			Error:  "catalog returned status 503",
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/scenes/status?request_id=req-123", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var result SceneStatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)
	assert.Contains(t, result.Error, "503")
}

func TestSceneHandler_Status_Done(t *testing.T) {
	mockSvc := new(MockSceneService)
	handler := NewSceneHandler(mockSvc, nil)

	cloud := 12.5
	mockSvc.On("GetStatus", mock.Anything, "req-123").
		Return(&service.SceneStatus{
			Status: domain.ResultStatusDone,
			Products: []service.SceneSummary{
				{
					ID:            "LC08_L2SP_154033_20240924_20240928_02_T1",
					CloudCover:    &cloud,
					SceneDatetime: "2024-09-24T05:55:00Z",
					Platform:      "LANDSAT_8",
				},
			},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/scenes/status?request_id=req-123", nil)
	w := httptest.NewRecorder()

	handler.Status(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result SceneProductsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "LC08_L2SP_154033_20240924_20240928_02_T1", result.Products[0].ID)
}

func TestSceneHandler_Assets_NotConfigured(t *testing.T) {
	handler := NewSceneHandler(new(MockSceneService), nil)

	req := httptest.NewRequest(http.MethodGet, "/scenes/LC08_L2SP_154033_20240924_20240928_02_T1/assets", nil)
	w := httptest.NewRecorder()

	handler.Assets(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSceneHandler_Assets_Success(t *testing.T) {
	mockAssets := new(MockAssetStore)
	handler := NewSceneHandler(new(MockSceneService), mockAssets)

	productID := "LC08_L2SP_154033_20240924_20240928_02_T1"
	mockAssets.On("SceneAssets", mock.Anything, productID).Return([]storage.SceneAsset{
		{Name: "SR_B4", Key: "collection02/level-2/standard/oli-tirs/2024/154/033/" + productID + "/" + productID + "_SR_B4.TIF", URL: "https://example.com/signed"},
	}, nil)

	router := chi.NewRouter()
	router.Get("/scenes/{product_id}/assets", handler.Assets)

	req := httptest.NewRequest(http.MethodGet, "/scenes/"+productID+"/assets", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result SceneAssetsResponse
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "SR_B4", result.Assets[0].Name)
}

func TestSceneHandler_Assets_BadProductID(t *testing.T) {
	mockAssets := new(MockAssetStore)
	handler := NewSceneHandler(new(MockSceneService), mockAssets)

	mockAssets.On("SceneAssets", mock.Anything, "not-a-product").Return(nil, domain.ErrInvalidProductID)

	router := chi.NewRouter()
	router.Get("/scenes/{product_id}/assets", handler.Assets)

	req := httptest.NewRequest(http.MethodGet, "/scenes/not-a-product/assets", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

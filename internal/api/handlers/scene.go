package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anushST/landset-nasa/internal/api"
	"github.com/anushST/landset-nasa/internal/domain"
	"github.com/anushST/landset-nasa/internal/service"
	"github.com/anushST/landset-nasa/internal/storage"
	"github.com/go-chi/chi/v5"
)

type SceneService interface {
	RequestScenes(ctx context.Context, input service.SceneSearchInput) (string, error)
	GetStatus(ctx context.Context, requestID string) (*service.SceneStatus, error)
}

// AssetStore signs download URLs for a scene's archive objects.
type AssetStore interface {
	SceneAssets(ctx context.Context, productID string) ([]storage.SceneAsset, error)
}

type SceneHandler struct {
	svc    SceneService
	assets AssetStore
}

// NewSceneHandler creates a SceneHandler. assets may be nil when no
// archive credentials are configured; the assets endpoint then reports
// unavailable.
func NewSceneHandler(svc SceneService, assets AssetStore) *SceneHandler {
	return &SceneHandler{svc: svc, assets: assets}
}

type SearchScenesRequest struct {
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
	TimeRange     string   `json:"time_range"`
	MinCloudCover *float64 `json:"min_cloud_cover"`
	MaxCloudCover *float64 `json:"max_cloud_cover"`
}

type SearchScenesResponse struct {
	RequestID string `json:"request_id"`
}

type SceneStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type SceneProductsResponse struct {
	Count    int                    `json:"count"`
	Products []service.SceneSummary `json:"products"`
}

// Search accepts a scene search and hands it to the background worker.
// The caller polls Status with the returned request id.
func (h *SceneHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchScenesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Longitude == nil || req.Latitude == nil {
		api.Error(w, http.StatusBadRequest, "longitude and latitude are required")
		return
	}
	if req.TimeRange == "" {
		api.Error(w, http.StatusBadRequest, "time_range is required")
		return
	}

	input := service.SceneSearchInput{
		Longitude:     *req.Longitude,
		Latitude:      *req.Latitude,
		TimeRange:     req.TimeRange,
		MinCloudCover: req.MinCloudCover,
		MaxCloudCover: req.MaxCloudCover,
	}

	requestID, err := h.svc.RequestScenes(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusAccepted, SearchScenesResponse{RequestID: requestID})
}

// Status reports the outcome of a previously accepted search. An
// unknown or expired request id reads the same as one still in flight.
func (h *SceneHandler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("request_id")
	if requestID == "" {
		api.Error(w, http.StatusBadRequest, "request_id is required")
		return
	}

	status, err := h.svc.GetStatus(r.Context(), requestID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	switch status.Status {
	case domain.ResultStatusDone:
		api.JSON(w, http.StatusOK, SceneProductsResponse{
			Count:    len(status.Products),
			Products: status.Products,
		})
	case domain.ResultStatusFailed:
		api.JSON(w, http.StatusBadGateway, SceneStatusResponse{
			Status: "failed",
			Error:  status.Error,
		})
	default:
		api.JSON(w, http.StatusAccepted, SceneStatusResponse{Status: "in_progress"})
	}
}

type SceneAssetsResponse struct {
	Count  int                  `json:"count"`
	Assets []storage.SceneAsset `json:"assets"`
}

// Assets lists the downloadable archive objects for one product id.
func (h *SceneHandler) Assets(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		api.Error(w, http.StatusServiceUnavailable, "scene archive is not configured")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		api.Error(w, http.StatusBadRequest, "product_id is required")
		return
	}

	assets, err := h.assets.SceneAssets(r.Context(), productID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, SceneAssetsResponse{
		Count:  len(assets),
		Assets: assets,
	})
}

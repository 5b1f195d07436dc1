package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anushST/landset-nasa/internal/api"
	"github.com/anushST/landset-nasa/internal/domain"
)

type AcquisitionService interface {
	PlanForAreas(ctx context.Context, satellites []string, areas []string, after time.Time) ([]domain.Acquisition, error)
	ByDay(ctx context.Context, date string) ([]domain.Acquisition, error)
}

type AcquisitionHandler struct {
	svc AcquisitionService
}

func NewAcquisitionHandler(svc AcquisitionService) *AcquisitionHandler {
	return &AcquisitionHandler{svc: svc}
}

type AcquisitionResponse struct {
	ID         int64  `json:"id"`
	Satellite  string `json:"satellite"`
	Path       string `json:"path"`
	Row        string `json:"row"`
	AcquiredAt string `json:"acquired_at"`
}

type AcquisitionListResponse struct {
	Count        int                   `json:"count"`
	Acquisitions []AcquisitionResponse `json:"acquisitions"`
}

func acquisitionsToResponse(rows []domain.Acquisition) []AcquisitionResponse {
	responses := make([]AcquisitionResponse, len(rows))
	for i, a := range rows {
		responses[i] = AcquisitionResponse{
			ID:         a.ID,
			Satellite:  a.Satellite,
			Path:       a.Path,
			Row:        a.Row,
			AcquiredAt: a.AcquiredAt.UTC().Format(time.RFC3339),
		}
	}
	return responses
}

// ListByDay returns every recorded acquisition on one calendar day.
func (h *AcquisitionHandler) ListByDay(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("datetime")
	if date == "" {
		api.Error(w, http.StatusBadRequest, "datetime is required")
		return
	}

	rows, err := h.svc.ByDay(r.Context(), date)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, AcquisitionListResponse{
		Count:        len(rows),
		Acquisitions: acquisitionsToResponse(rows),
	})
}

// Plan returns upcoming acquisitions over the requested WRS cells.
func (h *AcquisitionHandler) Plan(w http.ResponseWriter, r *http.Request) {
	areasParam := r.URL.Query().Get("areas")
	if areasParam == "" {
		api.Error(w, http.StatusBadRequest, "areas is required")
		return
	}
	areas := strings.Split(areasParam, ",")

	var satellites []string
	if satParam := r.URL.Query().Get("satellites"); satParam != "" {
		satellites = strings.Split(satParam, ",")
	}

	var after time.Time
	if afterParam := r.URL.Query().Get("after"); afterParam != "" {
		parsed, err := time.Parse(time.RFC3339, afterParam)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "after must be RFC3339")
			return
		}
		after = parsed
	}

	rows, err := h.svc.PlanForAreas(r.Context(), satellites, areas, after)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, AcquisitionListResponse{
		Count:        len(rows),
		Acquisitions: acquisitionsToResponse(rows),
	})
}

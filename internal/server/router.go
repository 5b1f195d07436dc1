package server

import (
	"net/http"

	"github.com/anushST/landset-nasa/internal/api"
	"github.com/anushST/landset-nasa/internal/api/handlers"
	"github.com/anushST/landset-nasa/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	SceneHandler       *handlers.SceneHandler
	AcquisitionHandler *handlers.AcquisitionHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/scenes", func(r chi.Router) {
		r.Post("/", cfg.SceneHandler.Search)
		r.Get("/status", cfg.SceneHandler.Status)
		r.Get("/{product_id}/assets", cfg.SceneHandler.Assets)
	})

	r.Route("/acquisitions", func(r chi.Router) {
		r.Get("/", cfg.AcquisitionHandler.ListByDay)
		r.Get("/plan", cfg.AcquisitionHandler.Plan)
	})

	return r
}

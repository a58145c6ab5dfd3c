package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sopulse/internal/config"
	"sopulse/internal/dataset"
)

// HealthHandler reports service liveness and dataset status
type HealthHandler struct {
	ds      *dataset.Dataset
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ds *dataset.Dataset, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		ds:      ds,
		logger:  logger,
		started: time.Now(),
	}
}

// RegisterRoutes registers the health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.GetHealth)
}

// healthResponse is the health check payload
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Records int    `json:"records"`
	Years   []int  `json:"years"`
}

// GetHealth returns service status and dataset summary. The service
// is degraded when it is running without any loaded records.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.ds.Len() == 0 {
		status = "degraded"
		render.Status(r, http.StatusServiceUnavailable)
	}

	render.JSON(w, r, healthResponse{
		Status:  status,
		Version: config.AppVersion,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Records: h.ds.Len(),
		Years:   h.ds.Years,
	})
}

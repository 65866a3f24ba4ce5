package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
)

// FigureRenderer rasterises a figure for the PNG endpoints.
type FigureRenderer interface {
	PNG(fig *models.Figure) ([]byte, error)
}

// DashboardHandler serves the read-only dashboard views.
type DashboardHandler struct {
	dashboard services.DashboardService
	renderer  FigureRenderer
	logger    *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard services.DashboardService, renderer FigureRenderer, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		renderer:  renderer,
		logger:    logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tabs/{tab}", h.GetTab)
	mux.HandleFunc("GET /api/timeseries/{chart}", h.GetTimeSeries)
	mux.HandleFunc("GET /api/timeseries/{chart}/png", h.GetTimeSeriesPNG)
	mux.HandleFunc("GET /api/metrics/{choice}", h.GetMetric)
	mux.HandleFunc("GET /api/metrics/{choice}/png", h.GetMetricPNG)
	mux.HandleFunc("GET /api/profiles", h.ListProfiles)
	mux.HandleFunc("GET /api/profiles/{index}", h.GetProfile)
}

// GetTab handles GET /api/tabs/{tab}
func (h *DashboardHandler) GetTab(w http.ResponseWriter, r *http.Request) {
	tab, err := h.dashboard.Tab(r.PathValue("tab"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeData(w, tab, h.logger)
}

// GetTimeSeries handles GET /api/timeseries/{chart}
func (h *DashboardHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	fig, err := h.dashboard.TimeSeriesFigure(r.PathValue("chart"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeData(w, fig, h.logger)
}

// GetTimeSeriesPNG handles GET /api/timeseries/{chart}/png
func (h *DashboardHandler) GetTimeSeriesPNG(w http.ResponseWriter, r *http.Request) {
	fig, err := h.dashboard.TimeSeriesFigure(r.PathValue("chart"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	h.writeFigurePNG(w, r, fig)
}

// GetMetric handles GET /api/metrics/{choice}
// choice is a selector label ("ROC-AUC") or its slug ("roc-auc").
func (h *DashboardHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	fig, err := h.dashboard.MetricFigure(r.PathValue("choice"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeData(w, fig, h.logger)
}

// GetMetricPNG handles GET /api/metrics/{choice}/png
func (h *DashboardHandler) GetMetricPNG(w http.ResponseWriter, r *http.Request) {
	fig, err := h.dashboard.MetricFigure(r.PathValue("choice"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	h.writeFigurePNG(w, r, fig)
}

// ListProfiles handles GET /api/profiles
func (h *DashboardHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.dashboard.ProfileOptions(), h.logger)
}

// GetProfile handles GET /api/profiles/{index}
func (h *DashboardHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	index, ok := ParseProfileIndex(w, r, h.logger)
	if !ok {
		return
	}

	sel, err := h.dashboard.ProfileSelection(index)
	if err != nil {
		writeLookupError(w, r, err, "profile_not_found", h.logger)
		return
	}
	writeData(w, sel, h.logger)
}

func (h *DashboardHandler) writeFigurePNG(w http.ResponseWriter, r *http.Request, fig *models.Figure) {
	data, err := h.renderer.PNG(fig)
	if err != nil {
		h.logger.Error("Failed to render figure",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "render_failed", "Failed to render figure", h.logger)
		return
	}
	if err := WritePNG(w, data); err != nil {
		h.logger.Error("Failed to write image", zap.Error(err))
	}
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// ConfigProvider supplies the dashboard's public configuration.
type ConfigProvider interface {
	Config() *models.DashboardConfig
}

// ConfigHandler handles configuration requests.
type ConfigHandler struct {
	provider ConfigProvider
	logger   *zap.Logger
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(provider ConfigProvider, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		provider: provider,
		logger:   logger,
	}
}

// RegisterRoutes registers the config handler's routes on the given mux.
func (h *ConfigHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/config", h.Get)
}

// Get returns the page title, tab bar, metric choices and form defaults.
// GET /api/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeData(w, h.provider.Config(), h.logger)
}

package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
	"github.com/ekaya-inc/ekaya-growth/pkg/config"
)

// Backend status values reported by /ping.
const (
	BackendOK          = "ok"
	BackendUnavailable = "unavailable"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Service     string            `json:"service"`
	GoVersion   string            `json:"go_version"`
	Hostname    string            `json:"hostname"`
	Environment string            `json:"environment"`
	Artifacts   artifacts.Summary `json:"artifacts"`
	Backends    map[string]string `json:"backends,omitempty"`
}

// SummaryProvider reports what was loaded at startup.
type SummaryProvider interface {
	Summary() artifacts.Summary
}

// BackendCheck pings an optional backend (Redis, Postgres).
type BackendCheck func(ctx context.Context) error

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg      *config.Config
	summary  SummaryProvider
	backends map[string]BackendCheck
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
// backends may be nil when no optional backend is configured.
func NewHealthHandler(cfg *config.Config, summary SummaryProvider, backends map[string]BackendCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, summary: summary, backends: backends, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
}

// Health handles GET /health requests.
// Artifacts are loaded before the server listens, so a running process is healthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests.
// Returns version, environment, artifact sizes and optional backend status.
// A failing optional backend degrades the status but never the HTTP code.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "ekaya-growth",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}
	if h.summary != nil {
		response.Artifacts = h.summary.Summary()
	}

	if len(h.backends) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		names := make([]string, 0, len(h.backends))
		for name := range h.backends {
			names = append(names, name)
		}
		sort.Strings(names)

		response.Backends = make(map[string]string, len(names))
		for _, name := range names {
			if err := h.backends[name](ctx); err != nil {
				h.logger.Warn("Backend check failed", zap.String("backend", name), zap.Error(err))
				response.Backends[name] = BackendUnavailable
				response.Status = "degraded"
				continue
			}
			response.Backends[name] = BackendOK
		}
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}

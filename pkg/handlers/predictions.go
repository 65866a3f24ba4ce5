package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/repositories"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
)

// maxPredictionBody bounds the User Inputs form payload.
const maxPredictionBody = 64 << 10

// PredictionHandler handles User Inputs form submissions.
type PredictionHandler struct {
	predictionService services.PredictionService
	logger            *zap.Logger
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictionService services.PredictionService, logger *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the prediction handler's routes on the given mux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/predictions", h.Predict)
	mux.HandleFunc("GET /api/predictions/recent", h.Recent)
}

// Predict handles POST /api/predictions
// The body is an object with the six form fields; numbers may be sent as
// strings and flags as booleans.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPredictionBody)

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Request body must be a JSON object", h.logger)
		return
	}

	req, err := models.DecodePredictionRequest(fields)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	result, err := h.predictionService.Predict(r.Context(), req, models.PredictionSourceHTTP)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeData(w, result, h.logger)
}

// Recent handles GET /api/predictions/recent?limit=N
// Returns 503 when prediction history is not configured.
func (h *PredictionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, ok := ParseLimit(w, r, repositories.DefaultHistoryLimit, h.logger)
	if !ok {
		return
	}

	records, err := h.predictionService.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if records == nil {
		records = []*models.PredictionRecord{}
	}
	writeData(w, records, h.logger)
}

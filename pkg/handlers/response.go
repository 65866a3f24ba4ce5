package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// ApiResponse wraps data in the format expected by the frontend.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorBody is the 400 body for rejected form input.
type ValidationErrorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []models.FieldError `json:"fields"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WritePNG writes an image/png response.
func WritePNG(w http.ResponseWriter, data []byte) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, err := w.Write(data)
	return err
}

// writeData writes a successful ApiResponse.
func writeData(w http.ResponseWriter, data any, logger *zap.Logger) {
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeError writes an error response, logging any encoding failure.
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string, logger *zap.Logger) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service error to its HTTP status.
// Unknown selectors mean the UI sent a value outside its own option list,
// so they are logged at error level.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		body := ValidationErrorBody{Error: "invalid_input", Message: verr.Error(), Fields: verr.Fields}
		if err := WriteJSON(w, http.StatusBadRequest, body); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrUnknownSelector):
		logger.Error("Selector value outside its domain",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid_selector", err.Error(), logger)
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), logger)
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), logger)
	case errors.Is(err, apperrors.ErrHistoryDisabled):
		writeError(w, http.StatusServiceUnavailable, "history_disabled", err.Error(), logger)
	default:
		logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", logger)
	}
}

// writeLookupError is writeServiceError for routes that address one item,
// reporting a miss with the route's own code (e.g. profile_not_found).
func writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFoundCode string, logger *zap.Logger) {
	if errors.Is(err, apperrors.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundCode, err.Error(), logger)
		return
	}
	writeServiceError(w, r, err, logger)
}

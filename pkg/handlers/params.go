package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseProfileIndex extracts the profile row index from the request path.
// Returns the index and true on success, or 0 and false on error
// (after writing an error response).
// Expects path parameter: index
func ParseProfileIndex(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_selector", "Profile index must be an integer", logger)
		return 0, false
	}
	return index, true
}

// ParseLimit reads the optional limit query parameter.
// Missing means def; anything else must be a positive integer.
func ParseLimit(w http.ResponseWriter, r *http.Request, def int, logger *zap.Logger) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", logger)
		return 0, false
	}
	return limit, true
}

package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// trimString removes leading and trailing whitespace from a string.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// getOptionalFloat extracts an optional float argument from the request.
func getOptionalFloat(req mcp.CallToolRequest, key string) (float64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	val, ok := args[key].(float64)
	return val, ok
}

// rawArguments re-encodes each argument so it can go through the same
// loose decoding as HTTP form bodies.
func rawArguments(req mcp.CallToolRequest) map[string]json.RawMessage {
	args, _ := req.Params.Arguments.(map[string]any)
	raw := make(map[string]json.RawMessage, len(args))
	for k, v := range args {
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		raw[k] = b
	}
	return raw
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// errorResult converts actionable service errors into tool error results.
// Anything else is returned as a Go error.
func errorResult(err error) (*mcp.CallToolResult, error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return NewErrorResultWithDetails("invalid_input", verr.Error(), verr.Fields), nil
	case errors.Is(err, apperrors.ErrUnknownSelector):
		return NewErrorResult("invalid_selector", err.Error()), nil
	case errors.Is(err, apperrors.ErrNotFound):
		return NewErrorResult("profile_not_found", err.Error()), nil
	case errors.Is(err, apperrors.ErrInvalidInput):
		return NewErrorResult("invalid_input", err.Error()), nil
	}
	return nil, err
}

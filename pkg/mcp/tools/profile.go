package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
)

// DashboardToolDeps contains dependencies for the read-only dashboard tools.
type DashboardToolDeps struct {
	DashboardService services.DashboardService
}

// RegisterProfileTools adds get_profile to the MCP server.
func RegisterProfileTools(s *server.MCPServer, deps *DashboardToolDeps) {
	tool := mcp.NewTool(
		"get_profile",
		mcp.WithDescription(
			"Get the Testing Results view of one test-set profile: the selection text, "+
				"predicted probability text, actual status and its six characteristics. "+
				"Look up by row index or by username.",
		),
		mcp.WithNumber("index", mcp.Description("Row index of the profile (0-based)")),
		mcp.WithString("username", mcp.Description("Username of the profile; used when index is omitted")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := resolveProfileIndex(req, deps.DashboardService)
		if err != nil {
			return errorResult(err)
		}
		if index < 0 {
			return NewErrorResult("invalid_input", "provide either index or username"), nil
		}

		sel, err := deps.DashboardService.ProfileSelection(index)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(sel)
	})
}

// resolveProfileIndex returns -1 when neither argument was given.
func resolveProfileIndex(req mcp.CallToolRequest, dashboard services.DashboardService) (int, error) {
	if v, ok := getOptionalFloat(req, "index"); ok {
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("index %v must be a whole number: %w", v, apperrors.ErrInvalidInput)
		}
		return int(v), nil
	}

	username := trimString(req.GetString("username", ""))
	if username == "" {
		return -1, nil
	}
	for _, opt := range dashboard.ProfileOptions() {
		if opt.Label == username {
			return opt.Value, nil
		}
	}
	return 0, fmt.Errorf("no profile named %q: %w", username, apperrors.ErrNotFound)
}

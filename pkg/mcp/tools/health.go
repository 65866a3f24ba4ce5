package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
)

type healthResult struct {
	Status    string             `json:"status"`
	Version   string             `json:"version"`
	Artifacts *artifacts.Summary `json:"artifacts,omitempty"`
}

// SummaryProvider reports what was loaded at startup.
type SummaryProvider interface {
	Summary() artifacts.Summary
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and artifact sizes.
// summary may be nil.
func RegisterHealthTool(s *server.MCPServer, version string, summary SummaryProvider) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := healthResult{Status: "ok", Version: version}
		if summary != nil {
			sum := summary.Summary()
			result.Artifacts = &sum
		}
		return jsonResult(result)
	})
}

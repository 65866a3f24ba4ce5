package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/mcp/tools"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
)

// Server wraps the mcp-go MCPServer exposing the dashboard to agents.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance with tool call logging.
func NewServer(name, version string, logger *zap.Logger) *Server {
	calls := NewToolCallLogger(logger)
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithHooks(calls.Hooks()),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// MCP returns the underlying MCPServer.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// ToolDeps carries the services the dashboard tools call.
type ToolDeps struct {
	Version           string
	DashboardService  services.DashboardService
	PredictionService services.PredictionService
	MaxCount          int
}

// ToolNames lists the tools RegisterTools adds.
var ToolNames = []string{
	"health",
	"get_profile",
	"list_metric_charts",
	"get_metric_chart",
	"predict_follow_probability",
}

// RegisterTools adds health, prediction, profile and metric chart tools.
func (s *Server) RegisterTools(deps *ToolDeps) {
	tools.RegisterHealthTool(s.mcp, deps.Version, deps.DashboardService)

	dashboardDeps := &tools.DashboardToolDeps{DashboardService: deps.DashboardService}
	tools.RegisterProfileTools(s.mcp, dashboardDeps)
	tools.RegisterMetricTools(s.mcp, dashboardDeps)

	tools.RegisterPredictionTools(s.mcp, &tools.PredictionToolDeps{
		PredictionService: deps.PredictionService,
		MaxCount:          deps.MaxCount,
	})

	s.logger.Info("MCP tools registered", zap.Strings("tools", ToolNames))
}

package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const maxPreviewLen = 200

// ToolCallLogger logs every MCP tool call with its duration and outcome.
type ToolCallLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewToolCallLogger creates a ToolCallLogger.
func NewToolCallLogger(logger *zap.Logger) *ToolCallLogger {
	return &ToolCallLogger{logger: logger.Named("mcp-tools")}
}

// Hooks returns server hooks that time and log tool calls.
func (l *ToolCallLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(l.beforeCallTool)
	hooks.AddAfterCallTool(l.afterCallTool)
	hooks.AddOnError(l.onError)
	return hooks
}

func (l *ToolCallLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	l.startTimes.Store(id, time.Now())
}

func (l *ToolCallLogger) afterCallTool(_ context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	duration := l.elapsed(id)
	summary := summarizeResult(result)

	fields := []zap.Field{
		zap.String("tool", req.Params.Name),
		zap.Duration("duration", duration),
		zap.Bool("is_error", summary.IsError),
	}
	if summary.ErrorCode != "" {
		fields = append(fields, zap.String("error_code", summary.ErrorCode))
	}

	if summary.IsError {
		l.logger.Info("MCP tool returned error result", append(fields, zap.String("preview", summary.Preview))...)
		return
	}
	l.logger.Info("MCP tool call", fields...)
}

func (l *ToolCallLogger) onError(_ context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}

	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	l.logger.Warn("MCP tool call failed",
		zap.String("tool", req.Params.Name),
		zap.Duration("duration", l.elapsed(id)),
		zap.Error(err))
}

func (l *ToolCallLogger) elapsed(id any) time.Duration {
	if v, ok := l.startTimes.LoadAndDelete(id); ok {
		return time.Since(v.(time.Time))
	}
	return 0
}

type resultSummary struct {
	IsError   bool
	ErrorCode string
	Preview   string
}

// summarizeResult extracts the error flag, structured error code and a
// truncated preview of the first text content.
func summarizeResult(result *mcplib.CallToolResult) resultSummary {
	if result == nil {
		return resultSummary{}
	}

	summary := resultSummary{IsError: result.IsError}
	for _, c := range result.Content {
		tc, ok := c.(mcplib.TextContent)
		if !ok {
			continue
		}
		text := tc.Text

		if result.IsError {
			var partial struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal([]byte(text), &partial); err == nil {
				summary.ErrorCode = partial.Code
			}
		}

		if len(text) > maxPreviewLen {
			text = text[:maxPreviewLen] + "...[truncated]"
		}
		summary.Preview = text
		break
	}
	return summary
}

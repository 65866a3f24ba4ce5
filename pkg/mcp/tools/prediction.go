package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/services"
)

// PredictionToolDeps contains dependencies for the prediction tool.
type PredictionToolDeps struct {
	PredictionService services.PredictionService
	MaxCount          int
}

// RegisterPredictionTools adds predict_follow_probability to the MCP server.
func RegisterPredictionTools(s *server.MCPServer, deps *PredictionToolDeps) {
	tool := mcp.NewTool(
		"predict_follow_probability",
		mcp.WithDescription(
			"Predict the probability that an Instagram profile becomes a follower. "+
				"Takes the same six values as the dashboard's User Inputs form and returns "+
				"the probability and its display message ('Probability of Survival: X.X%').",
		),
		mcp.WithNumber("mediacount", mcp.Required(), mcp.Description("Number of posts (whole number, 0 to max count)")),
		mcp.WithNumber("followers", mcp.Required(), mcp.Description("Number of followers (whole number, 0 to max count)")),
		mcp.WithNumber("followees", mcp.Required(), mcp.Description("Number of accounts followed (whole number, 0 to max count)")),
		mcp.WithNumber("is_private", mcp.Required(), mcp.Description("1 if the account is private, else 0")),
		mcp.WithNumber("is_business_account", mcp.Required(), mcp.Description("1 if the account is a business account, else 0")),
		mcp.WithNumber("has_public_story", mcp.Required(), mcp.Description("1 if the account has a public story, else 0")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		predReq, err := models.DecodePredictionRequest(rawArguments(req))
		if err != nil {
			return errorResult(err)
		}

		result, err := deps.PredictionService.Predict(ctx, predReq, models.PredictionSourceMCP)
		if err != nil {
			return errorResult(err)
		}
		return jsonResult(result)
	})
}

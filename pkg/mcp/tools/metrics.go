package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-growth/pkg/charts"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

type metricChartEntry struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	PNGURL string `json:"png_url"`
}

type listMetricChartsResponse struct {
	MetricCharts     []metricChartEntry `json:"metric_charts"`
	TimeSeriesCharts []metricChartEntry `json:"time_series_charts"`
}

type getMetricChartResponse struct {
	Name   string         `json:"name"`
	PNGURL string         `json:"png_url"`
	Figure *models.Figure `json:"figure"`
}

// RegisterMetricTools adds list_metric_charts and get_metric_chart to the MCP server.
func RegisterMetricTools(s *server.MCPServer, deps *DashboardToolDeps) {
	registerListMetricChartsTool(s)
	registerGetMetricChartTool(s, deps)
}

func registerListMetricChartsTool(s *server.MCPServer) {
	tool := mcp.NewTool(
		"list_metric_charts",
		mcp.WithDescription(
			"List the charts the dashboard can show: the Model Evaluation selector options "+
				"and the Time Series charts. Use get_metric_chart to fetch one.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := listMetricChartsResponse{}
		for _, c := range models.MetricChoices {
			resp.MetricCharts = append(resp.MetricCharts, metricChartEntry{
				Name:   c.Label,
				Slug:   c.Slug,
				PNGURL: "/api/metrics/" + c.Slug + "/png",
			})
		}
		for _, chart := range charts.TimeSeriesCharts {
			resp.TimeSeriesCharts = append(resp.TimeSeriesCharts, metricChartEntry{
				Name:   chart,
				Slug:   chart,
				PNGURL: "/api/timeseries/" + chart + "/png",
			})
		}
		return jsonResult(resp)
	})
}

func registerGetMetricChartTool(s *server.MCPServer, deps *DashboardToolDeps) {
	tool := mcp.NewTool(
		"get_metric_chart",
		mcp.WithDescription(
			"Get the figure JSON (Plotly data and layout) of one chart. "+
				"Accepts a Model Evaluation option label or slug (e.g. 'ROC-AUC' or 'roc-auc') "+
				"or a Time Series chart name (growth, discovery, forecast).",
		),
		mcp.WithString(
			"chart",
			mcp.Required(),
			mcp.Description("Chart label, slug or time series name"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("chart")
		if err != nil {
			return nil, err
		}
		name = trimString(name)

		if fig, err := deps.DashboardService.TimeSeriesFigure(name); err == nil {
			return jsonResult(getMetricChartResponse{
				Name:   name,
				PNGURL: "/api/timeseries/" + name + "/png",
				Figure: fig,
			})
		}

		fig, err := deps.DashboardService.MetricFigure(name)
		if err != nil {
			return errorResult(err)
		}
		choice, _ := models.LookupMetricChoice(name)
		return jsonResult(getMetricChartResponse{
			Name:   choice.Label,
			PNGURL: "/api/metrics/" + choice.Slug + "/png",
			Figure: fig,
		})
	})
}

package charts

import (
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// ChangeLookback is how many rows back the growth change is measured.
const ChangeLookback = 90

// Time Series chart names.
const (
	ChartGrowth    = "growth"
	ChartDiscovery = "discovery"
	ChartForecast  = "forecast"
)

// TimeSeriesCharts lists the Time Series charts in display order.
var TimeSeriesCharts = []string{ChartGrowth, ChartDiscovery, ChartForecast}

// PercentChange returns the follower change of the newest growth row over
// the row ChangeLookback rows older, e.g. "21.95%". Shorter histories use
// the oldest row. It returns "n/a" when there is nothing to compare against.
func PercentChange(points []models.GrowthPoint) string {
	if len(points) < 2 {
		return "n/a"
	}
	base := min(ChangeLookback, len(points)-1)
	old := points[base].Followers
	if old == 0 {
		return "n/a"
	}
	return formatRounded((points[0].Followers-old)/old*100, 2) + "%"
}

func growthDates(points []models.GrowthPoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		out[i] = formatDate(p.Date)
	}
	return out
}

func seriesDates(points []models.SeriesPoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		out[i] = formatDate(p.Date)
	}
	return out
}

func seriesFollowers(points []models.SeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Followers
	}
	return out
}

// GrowthFigure plots followers over time with the change annotation.
func GrowthFigure(points []models.GrowthPoint) *models.Figure {
	followers := make([]float64, len(points))
	for i, p := range points {
		followers[i] = p.Followers
	}
	change := PercentChange(points)

	layout := timeSeriesLayout(change, 1)
	layout.Title = &models.Title{Text: "Growth", Font: &models.Font{Family: fontTitle}}
	layout.Annotations = []models.Annotation{{
		Text:        change,
		XRef:        "x domain",
		YRef:        "y domain",
		X:           0.25,
		Y:           0.40,
		Font:        &models.Font{Family: "Courier New, monospace", Size: 18, Color: colorAnnotation},
		ShowArrow:   false,
		BorderColor: colorDark,
		BorderWidth: 1,
		BorderPad:   10,
		BgColor:     colorLight,
		Opacity:     0.8,
	}}

	return &models.Figure{
		Data: []models.Trace{{
			Type:        models.TraceScatter,
			Name:        "Followers",
			Mode:        "lines",
			X:           growthDates(points),
			Y:           followers,
			Line:        &models.Line{Color: colorGrowth, Width: lineWidthSeries},
			ConnectGaps: true,
		}},
		Layout: layout,
	}
}

// DiscoveryFigure plots impressions and reach over time.
func DiscoveryFigure(points []models.GrowthPoint) *models.Figure {
	impressions := make([]float64, len(points))
	reach := make([]float64, len(points))
	for i, p := range points {
		impressions[i] = p.Impressions
		reach[i] = p.Reach
	}
	x := growthDates(points)

	layout := timeSeriesLayout("Discovery", 0.01)
	layout.Title = &models.Title{Text: "", Font: &models.Font{Family: fontTitle}}

	return &models.Figure{
		Data: []models.Trace{
			{
				Type:        models.TraceScatter,
				Name:        "Impressions",
				Mode:        "lines+markers",
				X:           x,
				Y:           impressions,
				Line:        &models.Line{Color: colorDark, Width: lineWidthSeries},
				ConnectGaps: true,
			},
			{
				Type:        models.TraceScatter,
				Name:        "Reach",
				Mode:        "lines+markers",
				X:           x,
				Y:           reach,
				Line:        &models.Line{Color: colorLight, Width: lineWidthSeries},
				ConnectGaps: true,
			},
		},
		Layout: layout,
	}
}

// ForecastFigure plots the to-date series followed by the forecast segment.
func ForecastFigure(series, forecast []models.SeriesPoint) *models.Figure {
	layout := timeSeriesLayout("Forecast", 0.01)
	layout.Title = &models.Title{Text: "", Font: &models.Font{Family: fontTitle}}

	return &models.Figure{
		Data: []models.Trace{
			{
				Type:        models.TraceScatter,
				Name:        "ToDate",
				Mode:        "lines",
				X:           seriesDates(series),
				Y:           seriesFollowers(series),
				Line:        &models.Line{Color: colorDark, Width: lineWidthSeries},
				ConnectGaps: true,
			},
			{
				Type:        models.TraceScatter,
				Name:        "Forecast",
				Mode:        "lines+markers",
				X:           seriesDates(forecast),
				Y:           seriesFollowers(forecast),
				Line:        &models.Line{Color: colorForecast, Width: lineWidthSeries},
				ConnectGaps: true,
			},
		},
		Layout: layout,
	}
}

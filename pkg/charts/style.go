// Package charts builds the dashboard's Plotly figures from loaded artifacts.
package charts

import (
	"strconv"
	"strings"
	"time"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// Colours of the time-series figures.
const (
	colorGrowth      = "rgb(115,115,115)"
	colorDark        = "rgb(67,67,67)"
	colorLight       = "rgb(189,189,189)"
	colorForecast    = "rgb(49,130,189)"
	colorAxisLine    = "rgb(204, 204, 204)"
	colorTickFont    = "rgb(82, 82, 82)"
	colorAnnotation  = "#ffffff"
	colorPlotBg      = "white"
	lineWidthSeries  = 2
	fontBody         = "Courier New"
	fontTitle        = "Times New Roman"
	fontLegend       = "Arial"
	hoverModeUnified = "x unified"
)

// Colours of the evaluation figures.
const (
	colorBarLight   = "rgb(107,174,214)"
	colorBarRed     = "rgba(219, 64, 82, 0.6)"
	colorBarNavy    = "rgb(7,40,89)"
	colorBarOutline = "rgb(8,48,107)"
	colorBarCoeff   = "rgb(158,202,225)"
	colorROC        = "rgb(150,150,150)"
	colorBaseline   = "rgb(37,37,37)"
	colorTableHead  = "rgb(150,150,150)"
	colorTableLine  = "#7D7F80"
	colorTableFill  = "white"
	barOpacity      = 0.6
	barOutlineWidth = 1.5
)

// timeSeriesLayout is the layout shared by the three Time Series figures.
func timeSeriesLayout(legendTitle string, legendX float64) models.Layout {
	return models.Layout{
		XAxis: &models.Axis{
			ShowLine:       models.Bool(true),
			ShowGrid:       models.Bool(false),
			ShowTickLabels: models.Bool(true),
			LineColor:      colorAxisLine,
			LineWidth:      2,
			Ticks:          "outside",
			TickFont:       &models.Font{Family: fontLegend, Size: 12, Color: colorTickFont},
		},
		YAxis: &models.Axis{
			ShowGrid:       models.Bool(false),
			ZeroLine:       models.Bool(false),
			ShowLine:       models.Bool(false),
			ShowTickLabels: models.Bool(true),
			ShowSpikes:     models.Bool(true),
		},
		AutoSize: true,
		Margin:   &models.Margin{AutoExpand: false, L: 100, R: 20, T: 110},
		Font:     &models.Font{Family: fontBody},
		Legend: &models.Legend{
			Title:   &models.Title{Text: legendTitle},
			YAnchor: "top",
			Y:       0.99,
			XAnchor: "left",
			X:       legendX,
			Font:    &models.Font{Family: fontLegend, Size: 12, Color: "black"},
		},
		HoverMode:   hoverModeUnified,
		PlotBgColor: colorPlotBg,
	}
}

func title(text string) *models.Title {
	return &models.Title{Text: text}
}

func axisTitle(text string) *models.Axis {
	return &models.Axis{Title: title(text)}
}

// formatDate renders a date the way Plotly parses it.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// formatRounded rounds v to digits decimals (ties to even) and prints the
// shortest form, keeping at least one decimal: 21.95, 20.0, 75.0.
func formatRounded(v float64, digits int) string {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

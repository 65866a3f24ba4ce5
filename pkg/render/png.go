// Package render draws figures as PNG images for use outside the browser.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ekaya-inc/ekaya-growth/pkg/config"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

const (
	marginLeft   = 70.0
	marginRight  = 170.0
	marginTop    = 50.0
	marginBottom = 60.0
	yTicks       = 5
	tableRowH    = 24.0
)

var (
	colorText = color.NRGBA{40, 40, 40, 255}
	colorAxis = color.NRGBA{204, 204, 204, 255}
	colorGrid = color.NRGBA{235, 235, 235, 255}
)

// Renderer rasterises figures. It holds no per-call state and is safe for
// concurrent use.
type Renderer struct {
	width  int
	height int
	face   font.Face
	logger *zap.Logger
}

// NewRenderer creates a renderer producing images of the configured size.
func NewRenderer(cfg config.RenderConfig, logger *zap.Logger) *Renderer {
	return &Renderer{
		width:  cfg.Width,
		height: cfg.Height,
		face:   basicfont.Face7x13,
		logger: logger.Named("png-renderer"),
	}
}

// PNG draws fig and returns the encoded image.
func (r *Renderer) PNG(fig *models.Figure) ([]byte, error) {
	if fig == nil {
		return nil, fmt.Errorf("nil figure")
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetFontFace(r.face)
	dc.SetColor(color.White)
	dc.Clear()

	if fig.Layout.PlotBgColor != "" {
		if c, ok := parseColor(fig.Layout.PlotBgColor); ok {
			dc.SetColor(c)
			dc.DrawRectangle(marginLeft, marginTop, r.plotWidth(), r.plotHeight())
			dc.Fill()
		}
	}

	if fig.Layout.Title != nil && fig.Layout.Title.Text != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fig.Layout.Title.Text, float64(r.width)/2, marginTop/2, 0.5, 0.5)
	}

	if len(fig.Data) > 0 && fig.Data[0].Type == models.TraceTable {
		r.drawTable(dc, fig.Data[0])
	} else {
		r.drawXY(dc, fig)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) plotWidth() float64 {
	return float64(r.width) - marginLeft - marginRight
}

func (r *Renderer) plotHeight() float64 {
	return float64(r.height) - marginTop - marginBottom
}

// xScale maps trace X values to plot positions. Categories are spaced
// evenly; numbers and dates are scaled linearly.
type xScale struct {
	categories []string
	catIndex   map[string]int
	min, max   float64
	dates      bool
}

func numericX(v any) (float64, bool, bool) {
	switch x := v.(type) {
	case float64:
		return x, true, false
	case int:
		return float64(x), true, false
	case string:
		for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
			if t, err := time.Parse(layout, x); err == nil {
				return float64(t.Unix()), true, true
			}
		}
	}
	return 0, false, false
}

func newXScale(traces []models.Trace) *xScale {
	s := &xScale{catIndex: map[string]int{}, min: math.Inf(1), max: math.Inf(-1)}
	numeric := true
	for _, tr := range traces {
		if tr.Type == models.TraceBar {
			numeric = false
		}
		for _, v := range tr.X {
			if _, ok, _ := numericX(v); !ok {
				numeric = false
			}
		}
	}

	for _, tr := range traces {
		for _, v := range tr.X {
			if numeric {
				x, _, isDate := numericX(v)
				s.dates = s.dates || isDate
				s.min = math.Min(s.min, x)
				s.max = math.Max(s.max, x)
				continue
			}
			label := fmt.Sprint(v)
			if _, seen := s.catIndex[label]; !seen {
				s.catIndex[label] = len(s.categories)
				s.categories = append(s.categories, label)
			}
		}
	}
	if math.IsInf(s.min, 1) {
		s.min, s.max = 0, 1
	}
	if numeric && s.min == s.max {
		s.max = s.min + 1
	}
	return s
}

func (s *xScale) categorical() bool {
	return len(s.categories) > 0
}

// pos returns the position of v in [0,1] and the width of one category slot.
func (s *xScale) pos(v any) (float64, float64) {
	if s.categorical() {
		slot := 1 / float64(len(s.categories))
		return (float64(s.catIndex[fmt.Sprint(v)]) + 0.5) * slot, slot
	}
	x, _, _ := numericX(v)
	return (x - s.min) / (s.max - s.min), 0
}

func yRange(traces []models.Trace) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, tr := range traces {
		for _, y := range tr.Y {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
		if tr.Type == models.TraceBar {
			lo = math.Min(lo, 0)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	if lo == hi {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	if lo != 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func traceColor(tr models.Trace, i int) color.NRGBA {
	if tr.Line != nil {
		if c, ok := parseColor(tr.Line.Color); ok {
			return c
		}
	}
	if tr.Marker != nil {
		if c, ok := parseColor(tr.Marker.Color); ok {
			return c
		}
	}
	return defaultPalette[i%len(defaultPalette)]
}

func (r *Renderer) drawXY(dc *gg.Context, fig *models.Figure) {
	pw, ph := r.plotWidth(), r.plotHeight()
	xs := newXScale(fig.Data)
	ylo, yhi := yRange(fig.Data)

	px := func(f float64) float64 { return marginLeft + f*pw }
	py := func(y float64) float64 { return marginTop + ph - (y-ylo)/(yhi-ylo)*ph }

	// grid and y ticks
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		y := ylo + (yhi-ylo)*float64(i)/yTicks
		dc.SetColor(colorGrid)
		dc.DrawLine(marginLeft, py(y), marginLeft+pw, py(y))
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(formatTick(y), marginLeft-6, py(y), 1, 0.5)
	}

	var bars []int
	for i, tr := range fig.Data {
		if tr.Type == models.TraceBar {
			bars = append(bars, i)
		}
	}

	for i, tr := range fig.Data {
		c := traceColor(tr, i)
		switch tr.Type {
		case models.TraceBar:
			r.drawBars(dc, tr, c, xs, slices.Index(bars, i), len(bars), px, py, ylo)
		case models.TraceScatter:
			r.drawScatter(dc, tr, c, xs, px, py)
		default:
			r.logger.Debug("Skipping unsupported trace type", zap.String("type", tr.Type))
		}
	}

	// axes
	dc.SetColor(colorAxis)
	dc.SetLineWidth(2)
	dc.DrawLine(marginLeft, marginTop+ph, marginLeft+pw, marginTop+ph)
	dc.DrawLine(marginLeft, marginTop, marginLeft, marginTop+ph)
	dc.Stroke()

	r.drawXLabels(dc, xs, px, marginTop+ph)
	r.drawAxisTitles(dc, fig.Layout)
	r.drawLegend(dc, fig.Data)
	r.drawAnnotations(dc, fig.Layout.Annotations, pw, ph)
}

func (r *Renderer) drawBars(dc *gg.Context, tr models.Trace, c color.NRGBA, xs *xScale, group, groups int,
	px, py func(float64) float64, ylo float64) {
	c = withOpacity(c, tr.Opacity)
	base := math.Max(ylo, 0)
	for i, v := range tr.X {
		if i >= len(tr.Y) {
			break
		}
		center, slot := xs.pos(v)
		if slot == 0 {
			slot = 1 / float64(max(len(tr.X), 1))
		}
		w := slot * 0.8 / float64(groups)
		left := center - slot*0.4 + float64(group)*w

		x0, x1 := px(left), px(left+w)
		y0, y1 := py(base), py(tr.Y[i])
		top := math.Min(y0, y1)
		h := math.Abs(y1 - y0)

		dc.SetColor(c)
		dc.DrawRectangle(x0, top, x1-x0, h)
		dc.Fill()
		if tr.Marker != nil && tr.Marker.Line != nil {
			if oc, ok := parseColor(tr.Marker.Line.Color); ok {
				dc.SetColor(withOpacity(oc, tr.Opacity))
				dc.SetLineWidth(tr.Marker.Line.Width)
				dc.DrawRectangle(x0, top, x1-x0, h)
				dc.Stroke()
			}
		}
	}
}

func (r *Renderer) drawScatter(dc *gg.Context, tr models.Trace, c color.NRGBA, xs *xScale,
	px, py func(float64) float64) {
	n := min(len(tr.X), len(tr.Y))
	if n == 0 {
		return
	}
	width := 2.0
	if tr.Line != nil && tr.Line.Width > 0 {
		width = tr.Line.Width
	}

	dc.SetColor(c)
	dc.SetLineWidth(width)
	if tr.Mode == "" || strings.Contains(tr.Mode, "lines") {
		for i := 0; i < n; i++ {
			f, _ := xs.pos(tr.X[i])
			if i == 0 {
				dc.MoveTo(px(f), py(tr.Y[i]))
			} else {
				dc.LineTo(px(f), py(tr.Y[i]))
			}
		}
		dc.Stroke()
	}
	if strings.Contains(tr.Mode, "markers") {
		for i := 0; i < n; i++ {
			f, _ := xs.pos(tr.X[i])
			dc.DrawCircle(px(f), py(tr.Y[i]), 2.5)
			dc.Fill()
		}
	}
}

func (r *Renderer) drawXLabels(dc *gg.Context, xs *xScale, px func(float64) float64, y float64) {
	dc.SetColor(colorText)
	if xs.categorical() {
		maxChars := max(int(r.plotWidth()/float64(len(xs.categories))/7)-1, 3)
		for _, cat := range xs.categories {
			f, _ := xs.pos(cat)
			dc.DrawStringAnchored(truncate(cat, maxChars), px(f), y+12, 0.5, 0.5)
		}
		return
	}
	dc.DrawStringAnchored(xs.label(xs.min), px(0), y+12, 0, 0.5)
	dc.DrawStringAnchored(xs.label(xs.max), px(1), y+12, 1, 0.5)
}

func (s *xScale) label(v float64) string {
	if s.dates {
		return time.Unix(int64(v), 0).UTC().Format("2006-01-02")
	}
	return formatTick(v)
}

func (r *Renderer) drawAxisTitles(dc *gg.Context, layout models.Layout) {
	dc.SetColor(colorText)
	if layout.XAxis != nil && layout.XAxis.Title != nil {
		dc.DrawStringAnchored(layout.XAxis.Title.Text, marginLeft+r.plotWidth()/2, float64(r.height)-18, 0.5, 0.5)
	}
	if layout.YAxis != nil && layout.YAxis.Title != nil {
		cx, cy := 14.0, marginTop+r.plotHeight()/2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), cx, cy)
		dc.DrawStringAnchored(layout.YAxis.Title.Text, cx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

func (r *Renderer) drawLegend(dc *gg.Context, traces []models.Trace) {
	x := marginLeft + r.plotWidth() + 16
	y := marginTop + 8
	maxChars := int((marginRight-40)/7) - 1
	for i, tr := range traces {
		if tr.Name == "" {
			continue
		}
		dc.SetColor(traceColor(tr, i))
		dc.DrawRectangle(x, y-5, 14, 10)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(tr.Name, maxChars), x+20, y, 0, 0.5)
		y += 18
	}
}

func (r *Renderer) drawAnnotations(dc *gg.Context, annotations []models.Annotation, pw, ph float64) {
	for _, a := range annotations {
		if a.Text == "" {
			continue
		}
		cx := marginLeft + a.X*pw
		cy := marginTop + ph - a.Y*ph
		w, h := dc.MeasureString(a.Text)
		pad := float64(a.BorderPad)

		if bg, ok := parseColor(a.BgColor); ok {
			dc.SetColor(withOpacity(bg, a.Opacity))
			dc.DrawRectangle(cx-w/2-pad, cy-h/2-pad, w+2*pad, h+2*pad)
			dc.Fill()
		}
		if a.BorderWidth > 0 {
			if bc, ok := parseColor(a.BorderColor); ok {
				dc.SetColor(bc)
				dc.SetLineWidth(float64(a.BorderWidth))
				dc.DrawRectangle(cx-w/2-pad, cy-h/2-pad, w+2*pad, h+2*pad)
				dc.Stroke()
			}
		}
		fc := colorText
		if a.Font != nil {
			if c, ok := parseColor(a.Font.Color); ok {
				fc = c
			}
		}
		dc.SetColor(fc)
		dc.DrawStringAnchored(a.Text, cx, cy, 0.5, 0.5)
	}
}

func (r *Renderer) drawTable(dc *gg.Context, tr models.Trace) {
	if tr.Header == nil || len(tr.Header.Values) == 0 {
		return
	}
	cols := len(tr.Header.Values)
	colW := (float64(r.width) - 2*marginLeft) / float64(cols)
	maxChars := max(int(colW/7)-1, 3)
	x0, y := marginLeft, marginTop+10

	drawRow := func(cells []string, fill, line color.Color) {
		for j := 0; j < cols; j++ {
			x := x0 + float64(j)*colW
			dc.SetColor(fill)
			dc.DrawRectangle(x, y, colW, tableRowH)
			dc.Fill()
			dc.SetColor(line)
			dc.SetLineWidth(1)
			dc.DrawRectangle(x, y, colW, tableRowH)
			dc.Stroke()
			if j < len(cells) {
				dc.SetColor(colorText)
				dc.DrawStringAnchored(truncate(cells[j], maxChars), x+6, y+tableRowH/2, 0, 0.5)
			}
		}
		y += tableRowH
	}

	headFill, _ := parseColor(tr.Header.Fill.Color)
	headLine, _ := parseColor(tr.Header.Line.Color)
	drawRow(tr.Header.Values, headFill, headLine)

	if tr.Cells == nil {
		return
	}
	cellFill, ok := parseColor(tr.Cells.Fill.Color)
	if !ok {
		cellFill = color.NRGBA{255, 255, 255, 255}
	}
	cellLine, _ := parseColor(tr.Cells.Line.Color)

	rows := 0
	for _, col := range tr.Cells.Values {
		rows = max(rows, len(col))
	}
	for i := 0; i < rows; i++ {
		row := make([]string, cols)
		for j := 0; j < cols && j < len(tr.Cells.Values); j++ {
			if i < len(tr.Cells.Values[j]) {
				row[j] = tr.Cells.Values[j][i]
			}
		}
		drawRow(row, cellFill, cellLine)
	}
}

func formatTick(v float64) string {
	switch {
	case math.Abs(v) >= 1000:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case math.Abs(v) >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "~"
}

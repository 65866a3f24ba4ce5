package models

// Trace types understood by the UI and the PNG renderer.
const (
	TraceScatter = "scatter"
	TraceBar     = "bar"
	TraceTable   = "table"
)

// Figure is a Plotly-compatible chart: data traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one series of a figure. X holds either numbers, strings or
// dates; the renderer reads numeric values from Y only.
type Trace struct {
	Type        string       `json:"type"`
	Name        string       `json:"name,omitempty"`
	Mode        string       `json:"mode,omitempty"`
	X           []any        `json:"x,omitempty"`
	Y           []float64    `json:"y,omitempty"`
	Marker      *Marker      `json:"marker,omitempty"`
	Line        *Line        `json:"line,omitempty"`
	Opacity     float64      `json:"opacity,omitempty"`
	ConnectGaps bool         `json:"connectgaps,omitempty"`
	Header      *TableHeader `json:"header,omitempty"`
	Cells       *TableCells  `json:"cells,omitempty"`
}

// Marker styles bars and scatter markers.
type Marker struct {
	Color string `json:"color,omitempty"`
	Line  *Line  `json:"line,omitempty"`
}

// Line styles scatter lines and marker outlines.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Fill is a table background.
type Fill struct {
	Color string `json:"color"`
}

// TableHeader is the header row of a table trace.
type TableHeader struct {
	Values []string `json:"values"`
	Line   Line     `json:"line"`
	Fill   Fill     `json:"fill"`
	Align  []string `json:"align,omitempty"`
}

// TableCells holds table values column-major.
type TableCells struct {
	Values [][]string `json:"values"`
	Line   Line       `json:"line"`
	Fill   Fill       `json:"fill"`
	Align  []string   `json:"align,omitempty"`
}

// Font is a Plotly font setting.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Title is a chart or axis title.
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Title          *Title  `json:"title,omitempty"`
	ShowLine       *bool   `json:"showline,omitempty"`
	ShowGrid       *bool   `json:"showgrid,omitempty"`
	ShowTickLabels *bool   `json:"showticklabels,omitempty"`
	ZeroLine       *bool   `json:"zeroline,omitempty"`
	ShowSpikes     *bool   `json:"showspikes,omitempty"`
	LineColor      string  `json:"linecolor,omitempty"`
	LineWidth      float64 `json:"linewidth,omitempty"`
	Ticks          string  `json:"ticks,omitempty"`
	TickFont       *Font   `json:"tickfont,omitempty"`
	ScaleAnchor    string  `json:"scaleanchor,omitempty"`
	ScaleRatio     float64 `json:"scaleratio,omitempty"`
}

// Legend positions the legend box.
type Legend struct {
	Title   *Title  `json:"title,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
	Font    *Font   `json:"font,omitempty"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	AutoExpand bool `json:"autoexpand"`
	L          int  `json:"l"`
	R          int  `json:"r"`
	T          int  `json:"t"`
}

// Annotation is a free text label placed on the plot.
type Annotation struct {
	Text        string  `json:"text"`
	XRef        string  `json:"xref"`
	YRef        string  `json:"yref"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Font        *Font   `json:"font,omitempty"`
	ShowArrow   bool    `json:"showarrow"`
	BorderColor string  `json:"bordercolor,omitempty"`
	BorderWidth int     `json:"borderwidth,omitempty"`
	BorderPad   int     `json:"borderpad,omitempty"`
	BgColor     string  `json:"bgcolor,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// Layout configures a figure.
type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	Font        *Font        `json:"font,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	PlotBgColor string       `json:"plot_bgcolor,omitempty"`
	AutoSize    bool         `json:"autosize,omitempty"`
}

// Bool returns a pointer to b, for optional layout flags.
func Bool(b bool) *bool {
	return &b
}

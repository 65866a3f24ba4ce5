package render

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
	"github.com/ekaya-inc/ekaya-growth/pkg/charts"
	"github.com/ekaya-inc/ekaya-growth/pkg/config"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/testhelpers"
)

func TestRenderer_AllFigures(t *testing.T) {
	store, err := artifacts.Load(context.Background(), testhelpers.WriteArtifacts(t), zap.NewNop())
	require.NoError(t, err)
	metrics, err := charts.NewMetricsRenderer(store.Evaluation())
	require.NoError(t, err)

	figures := map[string]*models.Figure{
		"growth":    charts.GrowthFigure(store.Growth()),
		"discovery": charts.DiscoveryFigure(store.Growth()),
		"forecast":  charts.ForecastFigure(store.Series(), store.Forecast()),
	}
	for _, c := range models.MetricChoices {
		fig, err := metrics.Render(c.Label)
		require.NoError(t, err)
		figures[c.Slug] = fig
	}

	r := NewRenderer(config.RenderConfig{Width: 640, Height: 360}, zap.NewNop())
	for name, fig := range figures {
		t.Run(name, func(t *testing.T) {
			data, err := r.PNG(fig)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 640, img.Bounds().Dx())
			assert.Equal(t, 360, img.Bounds().Dy())
		})
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	fig := &models.Figure{
		Data: []models.Trace{{
			Type:   models.TraceBar,
			X:      []any{"a", "b"},
			Y:      []float64{1, 2},
			Marker: &models.Marker{Color: "rgb(107,174,214)"},
		}},
	}
	r := NewRenderer(config.RenderConfig{Width: 300, Height: 200}, zap.NewNop())

	first, err := r.PNG(fig)
	require.NoError(t, err)
	second, err := r.PNG(fig)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderer_EmptyAndNil(t *testing.T) {
	r := NewRenderer(config.RenderConfig{Width: 200, Height: 150}, zap.NewNop())

	_, err := r.PNG(nil)
	assert.Error(t, err)

	data, err := r.PNG(&models.Figure{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"rgb(107,174,214)", color.NRGBA{107, 174, 214, 255}, true},
		{"rgb(204, 204, 204)", color.NRGBA{204, 204, 204, 255}, true},
		{"rgba(219, 64, 82, 0.6)", color.NRGBA{219, 64, 82, 153}, true},
		{"#7D7F80", color.NRGBA{125, 127, 128, 255}, true},
		{"#fff", color.NRGBA{255, 255, 255, 255}, true},
		{"white", color.NRGBA{255, 255, 255, 255}, true},
		{"", color.NRGBA{}, false},
		{"rgb(300,0,0)", color.NRGBA{}, false},
		{"hsl(10,10%,10%)", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestWithOpacity(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 255}
	assert.Equal(t, uint8(153), withOpacity(c, 0.6).A)
	assert.Equal(t, c, withOpacity(c, 0))
	assert.Equal(t, c, withOpacity(c, 1))
}

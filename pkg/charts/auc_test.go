package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name   string
		labels []float64
		scores []float64
		want   float64
	}{
		{"sklearn docs example", []float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
		{"perfect separation", []float64{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}, 1},
		{"inverted", []float64{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9}, 0},
		{"all tied", []float64{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"partial tie", []float64{0, 1, 1}, []float64{0.3, 0.3, 0.9}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.labels, tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAUC_DoesNotReorderInput(t *testing.T) {
	scores := []float64{0.1, 0.4, 0.35, 0.8}
	_, err := AUC([]float64{0, 0, 1, 1}, scores)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.4, 0.35, 0.8}, scores)
}

func TestAUC_Errors(t *testing.T) {
	_, err := AUC([]float64{1, 1}, []float64{0.2, 0.4})
	assert.ErrorContains(t, err, "both classes")

	_, err = AUC([]float64{0, 1}, []float64{0.2})
	assert.ErrorContains(t, err, "differ in length")
}

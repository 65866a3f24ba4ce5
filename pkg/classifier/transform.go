package classifier

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// Transform types.
const (
	TransformStandardScaler = "standard_scaler"
	TransformMinMaxScaler   = "min_max_scaler"
)

type transformFile struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	DataMin      []float64 `json:"data_min"`
	DataMax      []float64 `json:"data_max"`
}

// Transform is a fitted per-feature scaler: x' = (x - offset) / scale.
type Transform struct {
	kind   string
	offset *mat.VecDense
	scale  *mat.VecDense
}

func newTransform(f transformFile) (*Transform, error) {
	if len(f.FeatureNames) > 0 && !slices.Equal(f.FeatureNames, models.FeatureNames) {
		return nil, fmt.Errorf("feature_names %v do not match %v", f.FeatureNames, models.FeatureNames)
	}

	var offset, scale []float64
	switch f.Type {
	case TransformStandardScaler:
		offset, scale = f.Mean, slices.Clone(f.Scale)
	case TransformMinMaxScaler:
		if len(f.DataMin) != len(f.DataMax) {
			return nil, fmt.Errorf("data_min and data_max differ in length")
		}
		offset = f.DataMin
		scale = make([]float64, len(f.DataMax))
		for i := range scale {
			scale[i] = f.DataMax[i] - f.DataMin[i]
		}
	default:
		return nil, fmt.Errorf("unsupported transform type %q", f.Type)
	}

	if len(offset) != len(models.FeatureNames) || len(scale) != len(models.FeatureNames) {
		return nil, fmt.Errorf("%s needs %d values per parameter, got %d and %d",
			f.Type, len(models.FeatureNames), len(offset), len(scale))
	}
	// Constant features are left unscaled.
	for i, s := range scale {
		if s == 0 {
			scale[i] = 1
		}
	}

	return &Transform{
		kind:   f.Type,
		offset: mat.NewVecDense(len(offset), slices.Clone(offset)),
		scale:  mat.NewVecDense(len(scale), scale),
	}, nil
}

// NumFeatures is the input width the transform was fitted on.
func (t *Transform) NumFeatures() int {
	return t.offset.Len()
}

// Apply scales x. The input is not modified.
func (t *Transform) Apply(x []float64) ([]float64, error) {
	if len(x) != t.NumFeatures() {
		return nil, fmt.Errorf("got %d features, want %d: %w", len(x), t.NumFeatures(), apperrors.ErrFeatureShape)
	}

	v := mat.NewVecDense(len(x), slices.Clone(x))
	v.SubVec(v, t.offset)
	v.DivElemVec(v, t.scale)
	return v.RawVector().Data, nil
}

// Package classifier evaluates the exported follow-prediction model:
// a fitted scaler followed by a random forest or logistic regression.
package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// Classifier types.
const (
	TypeRandomForest       = "random_forest"
	TypeLogisticRegression = "logistic_regression"
)

// positiveLabel is the class whose probability is reported.
const positiveLabel = 1

type modelFile struct {
	Type      string     `json:"type"`
	NFeatures int        `json:"n_features"`
	Classes   []int      `json:"classes"`
	Trees     []treeFile `json:"trees"`
	Coef      []float64  `json:"coef"`
	Intercept float64    `json:"intercept"`
}

type estimator interface {
	positiveProbability(x []float64) float64
}

// Model is a loaded transform + classifier pair. It is immutable and safe
// for concurrent use.
type Model struct {
	kind        string
	fingerprint string
	transform   *Transform
	estimator   estimator
}

// Load reads the transform and classifier exports.
func Load(transformPath, modelPath string) (*Model, error) {
	transformData, err := os.ReadFile(transformPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrArtifact, transformPath, err)
	}
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrArtifact, modelPath, err)
	}

	m, err := Parse(transformData, modelData)
	if err != nil {
		return nil, fmt.Errorf("%s, %s: %w", transformPath, modelPath, err)
	}
	return m, nil
}

// Parse builds a Model from the JSON exports.
func Parse(transformJSON, modelJSON []byte) (*Model, error) {
	var tf transformFile
	if err := json.Unmarshal(transformJSON, &tf); err != nil {
		return nil, fmt.Errorf("%w: transform: %v", apperrors.ErrArtifact, err)
	}
	transform, err := newTransform(tf)
	if err != nil {
		return nil, fmt.Errorf("%w: transform: %v", apperrors.ErrArtifact, err)
	}

	var mf modelFile
	if err := json.Unmarshal(modelJSON, &mf); err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", apperrors.ErrArtifact, err)
	}
	est, err := newEstimator(mf, transform.NumFeatures())
	if err != nil {
		return nil, fmt.Errorf("%w: classifier: %v", apperrors.ErrArtifact, err)
	}

	return &Model{
		kind:        mf.Type,
		fingerprint: fingerprint(transformJSON, modelJSON),
		transform:   transform,
		estimator:   est,
	}, nil
}

// fingerprint hashes both exports so a retrained model gets a new identity.
func fingerprint(transformJSON, modelJSON []byte) string {
	h := sha256.New()
	h.Write(transformJSON)
	h.Write([]byte{0})
	h.Write(modelJSON)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func newEstimator(mf modelFile, nFeatures int) (estimator, error) {
	if mf.NFeatures != nFeatures {
		return nil, fmt.Errorf("n_features is %d, transform has %d", mf.NFeatures, nFeatures)
	}
	positive := slices.Index(mf.Classes, positiveLabel)
	if positive < 0 {
		return nil, fmt.Errorf("classes %v have no positive label %d", mf.Classes, positiveLabel)
	}

	switch mf.Type {
	case TypeRandomForest:
		if len(mf.Trees) == 0 {
			return nil, fmt.Errorf("forest has no trees")
		}
		f := &forest{trees: make([]*tree, 0, len(mf.Trees))}
		for i, tfile := range mf.Trees {
			t, err := newTree(tfile, nFeatures, len(mf.Classes), positive)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			f.trees = append(f.trees, t)
		}
		return f, nil

	case TypeLogisticRegression:
		if len(mf.Classes) != 2 {
			return nil, fmt.Errorf("logistic regression needs 2 classes, got %d", len(mf.Classes))
		}
		if len(mf.Coef) != nFeatures {
			return nil, fmt.Errorf("coef has %d values, want %d", len(mf.Coef), nFeatures)
		}
		return &logistic{
			coef:          mat.NewVecDense(nFeatures, slices.Clone(mf.Coef)),
			intercept:     mf.Intercept,
			positiveFirst: positive == 0,
		}, nil
	}
	return nil, fmt.Errorf("unsupported classifier type %q", mf.Type)
}

// Kind returns the classifier type.
func (m *Model) Kind() string {
	return m.kind
}

// Fingerprint identifies the exact transform and classifier exports loaded.
// Cached probabilities are keyed by it.
func (m *Model) Fingerprint() string {
	return m.fingerprint
}

// Predict returns the positive-class probability for raw features given in
// models.FeatureNames order.
func (m *Model) Predict(features []float64) (float64, error) {
	x, err := m.transform.Apply(features)
	if err != nil {
		return 0, err
	}
	p := m.estimator.positiveProbability(x)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("classifier produced NaN for %v", features)
	}
	return math.Min(1, math.Max(0, p)), nil
}

// PredictRequest predicts for a validated form request.
func (m *Model) PredictRequest(req models.PredictionRequest) (float64, error) {
	return m.Predict(req.Features().Vector())
}

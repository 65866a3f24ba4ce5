package charts

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// MetricsRenderer builds the Model Evaluation figures. The AUC is computed
// once at construction; the renderer is read-only afterwards.
type MetricsRenderer struct {
	eval *models.EvaluationBundle
	auc  float64
}

// comparisonMetrics are the model comparison rows plotted as bar groups.
var comparisonMetrics = []string{models.ComparisonF1, models.ComparisonAccuracy, models.ComparisonAUC}

// NewMetricsRenderer validates the ROC data and comparison rows, and
// precomputes the AUC.
func NewMetricsRenderer(eval *models.EvaluationBundle) (*MetricsRenderer, error) {
	auc, err := AUC(eval.ROC.YTest, eval.ROC.Predictions)
	if err != nil {
		return nil, fmt.Errorf("%w: roc data: %v", apperrors.ErrArtifact, err)
	}
	for _, metric := range comparisonMetrics {
		if _, ok := eval.ModelComparison.Row(metric); !ok {
			return nil, fmt.Errorf("%w: model comparison has no %q row", apperrors.ErrArtifact, metric)
		}
	}
	return &MetricsRenderer{eval: eval, auc: auc}, nil
}

// AUC returns the recomputed area under the ROC curve.
func (r *MetricsRenderer) AUC() float64 {
	return r.auc
}

// Render returns the figure for a selector label or slug.
func (r *MetricsRenderer) Render(choice string) (*models.Figure, error) {
	c, ok := models.LookupMetricChoice(choice)
	if !ok {
		return nil, fmt.Errorf("metric choice %q: %w", choice, apperrors.ErrUnknownSelector)
	}

	switch c.Slug {
	case "comparison":
		return r.comparison(), nil
	case "final-metrics":
		return r.finalMetrics(), nil
	case "roc-auc":
		return r.roc(), nil
	case "confusion-matrix":
		return r.confusionMatrix(), nil
	case "feature-importance":
		return r.coefficients(), nil
	}
	return nil, fmt.Errorf("metric choice %q has no renderer: %w", choice, apperrors.ErrUnknownSelector)
}

func (r *MetricsRenderer) comparison() *models.Figure {
	mc := r.eval.ModelComparison
	x := stringsToAny(mc.Models)

	bars := []struct {
		metric string
		color  string
	}{
		{models.ComparisonF1, colorBarLight},
		{models.ComparisonAccuracy, colorBarRed},
		{models.ComparisonAUC, colorBarNavy},
	}

	fig := &models.Figure{
		Layout: models.Layout{
			Title: title("Comparison of Possible Models"),
			XAxis: axisTitle("Predictive models"),
			YAxis: axisTitle("Score"),
		},
	}
	for _, b := range bars {
		// Present: NewMetricsRenderer rejects a comparison missing any row.
		row, _ := mc.Row(b.metric)
		fig.Data = append(fig.Data, models.Trace{
			Type:   models.TraceBar,
			Name:   row.Metric,
			X:      x,
			Y:      row.Values,
			Marker: &models.Marker{Color: b.color},
		})
	}
	return fig
}

func (r *MetricsRenderer) finalMetrics() *models.Figure {
	scores := r.eval.EvalScores
	x := make([]any, len(scores))
	y := make([]float64, len(scores))
	for i, s := range scores {
		x[i] = s.Name
		y[i] = s.Value
	}

	return &models.Figure{
		Data: []models.Trace{{
			Type: models.TraceBar,
			X:    x,
			Y:    y,
			Marker: &models.Marker{
				Color: colorBarLight,
				Line:  &models.Line{Color: colorBarOutline, Width: barOutlineWidth},
			},
			Opacity: barOpacity,
		}},
		Layout: models.Layout{
			Title: title(fmt.Sprintf("Evaluation Metrics for Random Forest Model (Testing Dataset = %d profiles)", r.eval.TestCount())),
			XAxis: axisTitle("Metrics"),
			YAxis: axisTitle("Percent"),
		},
	}
}

func (r *MetricsRenderer) roc() *models.Figure {
	roc := r.eval.ROC
	xaxis := axisTitle("False Positive Rate (100-Specificity)")
	xaxis.ScaleAnchor = "y"
	xaxis.ScaleRatio = 1

	return &models.Figure{
		Data: []models.Trace{
			{
				Type:   models.TraceScatter,
				Name:   "AUC: " + formatRounded(100*r.auc, 1),
				Mode:   "lines",
				X:      floatsToAny(roc.FPR),
				Y:      roc.TPR,
				Marker: &models.Marker{Color: colorROC},
			},
			{
				Type:   models.TraceScatter,
				Name:   "Baseline Area: 50.0",
				Mode:   "lines",
				X:      []any{0.0, 1.0},
				Y:      []float64{0, 1},
				Marker: &models.Marker{Color: colorBaseline},
			},
		},
		Layout: models.Layout{
			Title: title("Receiver Operating Characteristic (ROC): Area Under Curve"),
			XAxis: xaxis,
			YAxis: axisTitle("True Positive Rate (Sensitivity)"),
		},
	}
}

func (r *MetricsRenderer) confusionMatrix() *models.Figure {
	cm := r.eval.ConfusionMatrix
	align := make([]string, len(cm.Columns))
	for i := range align {
		align[i] = "left"
	}

	return &models.Figure{
		Data: []models.Trace{{
			Type: models.TraceTable,
			Header: &models.TableHeader{
				Values: cm.Columns,
				Line:   models.Line{Color: colorTableHead},
				Fill:   models.Fill{Color: colorTableHead},
				Align:  align,
			},
			Cells: &models.TableCells{
				Values: cm.Values,
				Line:   models.Line{Color: colorTableLine},
				Fill:   models.Fill{Color: colorTableFill},
				Align:  align,
			},
		}},
		Layout: models.Layout{
			Title: title("Confusion Matrix: Random Forest Model (Testing Dataset)"),
		},
	}
}

func (r *MetricsRenderer) coefficients() *models.Figure {
	coeffs := r.eval.Coefficients
	x := make([]any, len(coeffs))
	y := make([]float64, len(coeffs))
	for i, c := range coeffs {
		x[i] = c.Feature
		y[i] = c.Coefficient
	}

	return &models.Figure{
		Data: []models.Trace{{
			Type: models.TraceBar,
			X:    x,
			Y:    y,
			Marker: &models.Marker{
				Color: colorBarCoeff,
				Line:  &models.Line{Color: colorBarOutline, Width: barOutlineWidth},
			},
			Opacity: barOpacity,
		}},
		Layout: models.Layout{
			Title: title("Number of Followers is a good indication of becoming a follower."),
			XAxis: axisTitle("Instagram Features"),
			YAxis: axisTitle("Odds of Becoming a Follower"),
		},
	}
}

func floatsToAny(in []float64) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

package models

// Model comparison rows that must be present in the comparison artifact.
const (
	ComparisonF1       = "F1 score"
	ComparisonAccuracy = "Accuracy"
	ComparisonAUC      = "AUC score"
)

// ComparisonRow is one metric across all candidate models.
type ComparisonRow struct {
	Metric string    `json:"metric"`
	Values []float64 `json:"values"`
}

// ModelComparison is a metric-by-model score grid.
type ModelComparison struct {
	Models []string        `json:"models"`
	Rows   []ComparisonRow `json:"rows"`
}

// Row returns the row for metric, if present.
func (m ModelComparison) Row(metric string) (ComparisonRow, bool) {
	for _, r := range m.Rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return ComparisonRow{}, false
}

// MetricScore is one named evaluation score of the final model.
type MetricScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ROCData holds the stored ROC curve and the raw test labels/scores it came from.
type ROCData struct {
	FPR         []float64 `json:"FPR"`
	TPR         []float64 `json:"TPR"`
	YTest       []float64 `json:"y_test"`
	Predictions []float64 `json:"predictions"`
}

// ConfusionMatrix is stored column-major, the way table traces consume it.
type ConfusionMatrix struct {
	Columns []string   `json:"columns"`
	Values  [][]string `json:"values"`
}

// Coefficient is one feature's weight in the final model.
type Coefficient struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
}

// EvaluationBundle groups the static evaluation artifacts.
type EvaluationBundle struct {
	ModelComparison ModelComparison `json:"model_comparison"`
	EvalScores      []MetricScore   `json:"eval_scores"`
	ROC             ROCData         `json:"roc"`
	ConfusionMatrix ConfusionMatrix `json:"confusion_matrix"`
	Coefficients    []Coefficient   `json:"coefficients"`
}

// TestCount is the size of the testing dataset.
func (e *EvaluationBundle) TestCount() int {
	return len(e.ROC.YTest)
}

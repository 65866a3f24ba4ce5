package testhelpers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ekaya-inc/ekaya-growth/pkg/config"
)

// Values of the artifact fixture, for assertions.
const (
	FixtureProfileCount = 3
	FixtureGrowthRows   = 120
	FixtureTestCount    = 4

	// FixtureGrowthChange is the 90-day change of the growth fixture:
	// (1000 - 820) / 820 * 100 rounded to two decimals.
	FixtureGrowthChange = "21.95%"

	// FixtureAUC is roc_auc_score(y_test, predictions) of the ROC fixture.
	FixtureAUC = 0.75

	// FixtureKnownProbability is what the classifier fixture returns for
	// mediacount=10, followers=5, followees=20, is_private=0,
	// is_business_account=0, has_public_story=1.
	FixtureKnownProbability = 0.375
)

const profilesCSV = `username,is_private,mediacount,followers,followees,is_business_account,has_public_story,follower_probability,actual
alice_photo,0,120,340,512,0,1,0.5,follower
bob.travels,True,15,80,900,False,0,0.125,non-follower
carol_eats,0,48.0,1200,300,1,1,0.8734,follower
`

const seriesCSV = `Date,Followers
2021-06-26,990
2021-06-27,992
2021-06-28,995
2021-06-29,998
2021-06-30,1000
`

const forecastCSV = `Date,Followers
2021-07-01 00:00:00,1003.5
2021-07-02 00:00:00,1006.1
2021-07-03 00:00:00,1009.8
`

const compareModelsCSV = `,Logistic Regression,Random Forest,KNN
F1 score,0.71,0.78,0.66
Accuracy,0.74,0.81,0.69
AUC score,0.79,0.86,0.72
`

const evalScoresJSON = `{"Accuracy": 81.2, "Precision": 79.5, "Recall": 76.0, "F1 Score": 77.7, "AUC": 86.1}`

const rocJSON = `{
  "FPR": [0.0, 0.0, 0.5, 0.5, 1.0],
  "TPR": [0.0, 0.5, 0.5, 1.0, 1.0],
  "y_test": [0, 0, 1, 1],
  "predictions": [0.1, 0.4, 0.35, 0.8]
}`

const confusionMatrixCSV = `n=4,pred: follower,pred: non-follower
actual: follower,1,1
actual: non-follower,0,2
`

const coefficientsCSV = `feature,coefficient
followers,1.84
mediacount,0.42
followees,-0.31
has_public_story,0.12
is_business_account,-0.08
is_private,-0.57
`

const transformJSON = `{
  "type": "standard_scaler",
  "feature_names": ["is_private", "mediacount", "followers", "followees", "is_business_account", "has_public_story"],
  "mean": [0, 50, 100, 200, 0, 0.5],
  "scale": [1, 25, 50, 100, 1, 0.5]
}`

// Two trees over the scaled features:
// tree 1 splits on followers (<= -0.5 gives 1/4, else 3/4);
// tree 2 splits on has_public_story, then mediacount.
const classifierJSON = `{
  "type": "random_forest",
  "n_features": 6,
  "classes": [0, 1],
  "trees": [
    {
      "children_left": [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature": [2, -2, -2],
      "threshold": [-0.5, -2, -2],
      "value": [[[4, 4]], [[3, 1]], [[1, 3]]]
    },
    {
      "children_left": [1, -1, 3, -1, -1],
      "children_right": [2, -1, 4, -1, -1],
      "feature": [5, -2, 1, -2, -2],
      "threshold": [0, -2, -1.0, -2, -2],
      "value": [[[6, 7]], [[4, 0]], [[2, 7]], [[2, 2]], [[0, 5]]]
    }
  ]
}`

// ArtifactFiles maps each default artifact file name to its fixture content.
func ArtifactFiles(t *testing.T) map[string][]byte {
	t.Helper()

	return map[string][]byte{
		"final_probs.csv":           []byte(profilesCSV),
		"profile_growth.csv":        []byte(growthCSV()),
		"series_df.csv":             []byte(seriesCSV),
		"forecast_df.csv":           []byte(forecastCSV),
		"compare_models.csv":        []byte(compareModelsCSV),
		"eval_scores.json":          []byte(evalScoresJSON),
		"roc_dict.json":             []byte(rocJSON),
		"confusion_matrix.csv":      []byte(confusionMatrixCSV),
		"coefficients.csv":          []byte(coefficientsCSV),
		"preprocess.json":           []byte(transformJSON),
		"final_model.json":          []byte(classifierJSON),
		"clean_instagram_logo2.png": LogoPNG(t),
	}
}

// WriteArtifacts writes a complete artifact fixture set into a new temp dir
// and returns a resources config pointing at it.
func WriteArtifacts(t *testing.T) config.ResourcesConfig {
	t.Helper()

	dir := t.TempDir()
	for name, data := range ArtifactFiles(t) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}

	return ResourcesConfig(dir)
}

// ResourcesConfig returns the default artifact file names inside dir.
func ResourcesConfig(dir string) config.ResourcesConfig {
	return config.ResourcesConfig{
		Dir:             dir,
		Profiles:        "final_probs.csv",
		Growth:          "profile_growth.csv",
		Series:          "series_df.csv",
		Forecast:        "forecast_df.csv",
		ModelComparison: "compare_models.csv",
		EvalScores:      "eval_scores.json",
		ROC:             "roc_dict.json",
		ConfusionMatrix: "confusion_matrix.csv",
		Coefficients:    "coefficients.csv",
		Transform:       "preprocess.json",
		Classifier:      "final_model.json",
		Logo:            "clean_instagram_logo2.png",
	}
}

// LogoPNG returns a small encoded PNG.
func LogoPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 193, G: 53, B: 132, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode logo fixture: %v", err)
	}
	return buf.Bytes()
}

// growthCSV builds FixtureGrowthRows newest-first rows. Followers drop by 2
// per row going back in time, so row 0 has 1000 and row 90 has 820.
func growthCSV() string {
	var b strings.Builder
	b.WriteString("Date,Followers,Impressions,Reach\n")
	newest := time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < FixtureGrowthRows; i++ {
		fmt.Fprintf(&b, "%s,%d,%d,%d\n",
			newest.AddDate(0, 0, -i).Format("2006-01-02"),
			1000-2*i, 500+i, 300+i)
	}
	return b.String()
}

package artifacts

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// csvTable is a parsed CSV file: header cells and data records.
type csvTable struct {
	header  []string
	records [][]string
}

func parseCSV(data []byte) (*csvTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	return &csvTable{header: header, records: rows[1:]}, nil
}

// columns returns the index of each named column, failing on the first missing one.
func (t *csvTable) columns(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(t.header))
	for i, h := range t.header {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}

	out := make(map[string]int, len(names))
	for _, n := range names {
		i, ok := idx[n]
		if !ok {
			return nil, fmt.Errorf("missing column %q", n)
		}
		out[n] = i
	}
	return out, nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	// ParseFloat accepts NaN and Inf, which no artifact column may hold.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// parseFlag accepts 0/1, 0.0/1.0 and True/False.
func parseFlag(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true":
		return 1, nil
	case "0", "0.0", "false":
		return 0, nil
	}
	return 0, fmt.Errorf("invalid flag %q", s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func parseProfiles(data []byte) ([]models.Profile, error) {
	table, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	cols, err := table.columns(append([]string{"username", "follower_probability", "actual"}, models.FeatureNames...)...)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, len(table.records))
	for i, rec := range table.records {
		line := i + 2
		p := models.Profile{
			Index:    i,
			Username: rec[cols["username"]],
			Actual:   rec[cols["actual"]],
		}

		if p.FollowerProbability, err = parseNumber(rec[cols["follower_probability"]]); err != nil {
			return nil, fmt.Errorf("line %d: follower_probability: %w", line, err)
		}
		if p.FollowerProbability < 0 || p.FollowerProbability > 1 {
			return nil, fmt.Errorf("line %d: follower_probability %v outside [0,1]", line, p.FollowerProbability)
		}

		f := &p.Features
		flags := map[string]*int{
			"is_private":          &f.IsPrivate,
			"is_business_account": &f.IsBusinessAccount,
			"has_public_story":    &f.HasPublicStory,
		}
		for name, dst := range flags {
			if *dst, err = parseFlag(rec[cols[name]]); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
		}
		counts := map[string]*float64{
			"mediacount": &f.MediaCount,
			"followers":  &f.Followers,
			"followees":  &f.Followees,
		}
		for name, dst := range counts {
			if *dst, err = parseNumber(rec[cols[name]]); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
		}

		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles")
	}
	return profiles, nil
}

func parseGrowth(data []byte) ([]models.GrowthPoint, error) {
	table, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	cols, err := table.columns("Date", "Followers", "Impressions", "Reach")
	if err != nil {
		return nil, err
	}

	points := make([]models.GrowthPoint, 0, len(table.records))
	for i, rec := range table.records {
		var gp models.GrowthPoint
		if gp.Date, err = parseDate(rec[cols["Date"]]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if gp.Followers, err = parseNumber(rec[cols["Followers"]]); err != nil {
			return nil, fmt.Errorf("line %d: Followers: %w", i+2, err)
		}
		if gp.Impressions, err = parseNumber(rec[cols["Impressions"]]); err != nil {
			return nil, fmt.Errorf("line %d: Impressions: %w", i+2, err)
		}
		if gp.Reach, err = parseNumber(rec[cols["Reach"]]); err != nil {
			return nil, fmt.Errorf("line %d: Reach: %w", i+2, err)
		}
		points = append(points, gp)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	return points, nil
}

func parseSeries(data []byte) ([]models.SeriesPoint, error) {
	table, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	cols, err := table.columns("Date", "Followers")
	if err != nil {
		return nil, err
	}

	points := make([]models.SeriesPoint, 0, len(table.records))
	for i, rec := range table.records {
		var sp models.SeriesPoint
		if sp.Date, err = parseDate(rec[cols["Date"]]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if sp.Followers, err = parseNumber(rec[cols["Followers"]]); err != nil {
			return nil, fmt.Errorf("line %d: Followers: %w", i+2, err)
		}
		points = append(points, sp)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	return points, nil
}

func parseModelComparison(data []byte) (models.ModelComparison, error) {
	var mc models.ModelComparison

	table, err := parseCSV(data)
	if err != nil {
		return mc, err
	}
	if len(table.header) < 2 {
		return mc, fmt.Errorf("expected a label column and at least one model column")
	}

	mc.Models = append([]string(nil), table.header[1:]...)
	for i, rec := range table.records {
		row := models.ComparisonRow{Metric: strings.TrimSpace(rec[0])}
		for j, cell := range rec[1:] {
			v, err := parseNumber(cell)
			if err != nil {
				return mc, fmt.Errorf("line %d, model %q: %w", i+2, mc.Models[j], err)
			}
			row.Values = append(row.Values, v)
		}
		mc.Rows = append(mc.Rows, row)
	}

	for _, required := range []string{models.ComparisonF1, models.ComparisonAccuracy, models.ComparisonAUC} {
		if _, ok := mc.Row(required); !ok {
			return mc, fmt.Errorf("missing row %q", required)
		}
	}
	return mc, nil
}

// parseEvalScores decodes a flat JSON object of numbers, keeping key order.
func parseEvalScores(data []byte) ([]models.MetricScore, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var scores []models.MetricScore
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("score %q: %w", name, err)
		}
		scores = append(scores, models.MetricScore{Name: name, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after object")
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores")
	}
	return scores, nil
}

func parseROC(data []byte) (models.ROCData, error) {
	var roc models.ROCData
	if err := json.Unmarshal(data, &roc); err != nil {
		return roc, err
	}

	if len(roc.FPR) == 0 || len(roc.FPR) != len(roc.TPR) {
		return roc, fmt.Errorf("FPR and TPR must be non-empty and of equal length (%d vs %d)", len(roc.FPR), len(roc.TPR))
	}
	if len(roc.YTest) != len(roc.Predictions) {
		return roc, fmt.Errorf("y_test and predictions differ in length (%d vs %d)", len(roc.YTest), len(roc.Predictions))
	}

	var pos, neg int
	for _, y := range roc.YTest {
		switch y {
		case 1:
			pos++
		case 0:
			neg++
		default:
			return roc, fmt.Errorf("y_test label %v is not 0 or 1", y)
		}
	}
	if pos == 0 || neg == 0 {
		return roc, fmt.Errorf("y_test needs both classes to score AUC")
	}
	return roc, nil
}

func parseConfusionMatrix(data []byte) (models.ConfusionMatrix, error) {
	var cm models.ConfusionMatrix

	table, err := parseCSV(data)
	if err != nil {
		return cm, err
	}

	cm.Columns = append([]string(nil), table.header...)
	cm.Values = make([][]string, len(cm.Columns))
	for _, rec := range table.records {
		for j := range cm.Columns {
			cm.Values[j] = append(cm.Values[j], strings.TrimSpace(rec[j]))
		}
	}
	return cm, nil
}

func parseCoefficients(data []byte) ([]models.Coefficient, error) {
	table, err := parseCSV(data)
	if err != nil {
		return nil, err
	}
	cols, err := table.columns("feature", "coefficient")
	if err != nil {
		return nil, err
	}

	coeffs := make([]models.Coefficient, 0, len(table.records))
	for i, rec := range table.records {
		v, err := parseNumber(rec[cols["coefficient"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: coefficient: %w", i+2, err)
		}
		coeffs = append(coeffs, models.Coefficient{Feature: rec[cols["feature"]], Coefficient: v})
	}
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("no coefficients")
	}
	return coeffs, nil
}

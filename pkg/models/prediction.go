package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/jsonutil"
)

// Prediction sources recorded in history.
const (
	PredictionSourceHTTP = "http"
	PredictionSourceMCP  = "mcp"
)

// PredictionRequest carries the six values of the User Inputs form.
// Values arrive as numbers and are validated before any model call.
type PredictionRequest struct {
	MediaCount        float64 `json:"mediacount"`
	Followers         float64 `json:"followers"`
	Followees         float64 `json:"followees"`
	IsPrivate         float64 `json:"is_private"`
	IsBusinessAccount float64 `json:"is_business_account"`
	HasPublicStory    float64 `json:"has_public_story"`
}

// DefaultPredictionRequest returns the form's initial values.
func DefaultPredictionRequest() PredictionRequest {
	return PredictionRequest{HasPublicStory: 1}
}

// FieldError describes one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// Add records a field problem.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns e when it holds at least one field error, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks counts are integers in [0, maxCount] and flags are 0 or 1.
func (r PredictionRequest) Validate(maxCount int) error {
	verr := &ValidationError{}

	counts := []struct {
		name  string
		value float64
	}{
		{"mediacount", r.MediaCount},
		{"followers", r.Followers},
		{"followees", r.Followees},
	}
	for _, c := range counts {
		switch {
		case math.IsNaN(c.value) || math.IsInf(c.value, 0):
			verr.Add(c.name, "must be a number")
		case c.value != math.Trunc(c.value):
			verr.Add(c.name, "must be a whole number")
		case c.value < 0 || c.value > float64(maxCount):
			verr.Add(c.name, fmt.Sprintf("must be between 0 and %d", maxCount))
		}
	}

	flags := []struct {
		name  string
		value float64
	}{
		{"is_private", r.IsPrivate},
		{"is_business_account", r.IsBusinessAccount},
		{"has_public_story", r.HasPublicStory},
	}
	for _, f := range flags {
		if f.value != 0 && f.value != 1 {
			verr.Add(f.name, "must be 0 or 1")
		}
	}

	return verr.Err()
}

// Features converts a validated request into classifier features.
func (r PredictionRequest) Features() ProfileFeatures {
	return ProfileFeatures{
		IsPrivate:         int(r.IsPrivate),
		MediaCount:        r.MediaCount,
		Followers:         r.Followers,
		Followees:         r.Followees,
		IsBusinessAccount: int(r.IsBusinessAccount),
		HasPublicStory:    int(r.HasPublicStory),
	}
}

// Key is the canonical feature vector, used as the cache key.
func (r PredictionRequest) Key() string {
	vec := r.Features().Vector()
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// PredictionResult is the answer to one form submission.
type PredictionResult struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Probability float64    `json:"probability"`
	Percent     string     `json:"percent"`
	Message     string     `json:"message"`
	Cached      bool       `json:"cached"`
}

// NewPredictionResult formats probability p for display.
func NewPredictionResult(p float64) *PredictionResult {
	pct := FormatPercentOneDecimal(p)
	return &PredictionResult{
		Probability: p,
		Percent:     pct,
		Message:     "Probability of Survival: " + pct + "%",
	}
}

// PredictionRecord is a persisted prediction.
type PredictionRecord struct {
	ID          uuid.UUID       `json:"id"`
	Features    ProfileFeatures `json:"features"`
	Probability float64         `json:"probability"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RoundPercent returns p*100 rounded to the nearest integer, ties to even.
func RoundPercent(p float64) int64 {
	return int64(math.RoundToEven(p * 100))
}

// FormatPercentOneDecimal returns p*100 with one decimal, ties to even.
func FormatPercentOneDecimal(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64)
}

// DecodePredictionRequest reads the six form fields from loosely typed JSON.
// Every field is required; unknown keys are ignored. Range checks are left
// to Validate.
func DecodePredictionRequest(fields map[string]json.RawMessage) (PredictionRequest, error) {
	var req PredictionRequest
	verr := &ValidationError{}

	targets := []struct {
		name string
		dst  *float64
	}{
		{"mediacount", &req.MediaCount},
		{"followers", &req.Followers},
		{"followees", &req.Followees},
		{"is_private", &req.IsPrivate},
		{"is_business_account", &req.IsBusinessAccount},
		{"has_public_story", &req.HasPublicStory},
	}
	for _, t := range targets {
		v, err := jsonutil.FlexibleNumber(fields[t.name])
		if err != nil {
			msg := jsonutil.ErrNotNumber.Error()
			if errors.Is(err, jsonutil.ErrMissing) {
				msg = jsonutil.ErrMissing.Error()
			}
			verr.Add(t.name, msg)
			continue
		}
		*t.dst = v
	}

	return req, verr.Err()
}

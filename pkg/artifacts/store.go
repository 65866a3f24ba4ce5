package artifacts

import (
	"fmt"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
)

// Store holds every loaded artifact. It is built once by Load and never
// modified, so it is safe for concurrent use.
type Store struct {
	profiles    []models.Profile
	growth      []models.GrowthPoint
	series      []models.SeriesPoint
	forecast    []models.SeriesPoint
	evaluation  models.EvaluationBundle
	logoDataURI string
}

// Summary reports artifact sizes for health output.
type Summary struct {
	Profiles     int `json:"profiles"`
	GrowthRows   int `json:"growth_rows"`
	SeriesRows   int `json:"series_rows"`
	ForecastRows int `json:"forecast_rows"`
	TestCount    int `json:"test_count"`
}

// Profiles returns every profile in row order.
func (s *Store) Profiles() []models.Profile {
	return s.profiles
}

// Profile returns the profile at row index i.
func (s *Store) Profile(i int) (models.Profile, error) {
	if i < 0 || i >= len(s.profiles) {
		return models.Profile{}, fmt.Errorf("profile index %d (have %d): %w", i, len(s.profiles), apperrors.ErrNotFound)
	}
	return s.profiles[i], nil
}

// Growth returns the growth history, newest first.
func (s *Store) Growth() []models.GrowthPoint {
	return s.growth
}

// Series returns the to-date follower series.
func (s *Store) Series() []models.SeriesPoint {
	return s.series
}

// Forecast returns the forecast segment.
func (s *Store) Forecast() []models.SeriesPoint {
	return s.forecast
}

// Evaluation returns the static evaluation artifacts.
func (s *Store) Evaluation() *models.EvaluationBundle {
	return &s.evaluation
}

// LogoDataURI returns the logo image as a data: URI.
func (s *Store) LogoDataURI() string {
	return s.logoDataURI
}

// Summary returns artifact row counts.
func (s *Store) Summary() Summary {
	return Summary{
		Profiles:     len(s.profiles),
		GrowthRows:   len(s.growth),
		SeriesRows:   len(s.series),
		ForecastRows: len(s.forecast),
		TestCount:    s.evaluation.TestCount(),
	}
}

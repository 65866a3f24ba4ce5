package services

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/artifacts"
	"github.com/ekaya-inc/ekaya-growth/pkg/charts"
	"github.com/ekaya-inc/ekaya-growth/pkg/models"
	"github.com/ekaya-inc/ekaya-growth/pkg/services/content"
)

// DashboardService answers the read-only views of the dashboard. Everything
// it serves is derived from the loaded artifacts, so results are computed
// once at construction.
type DashboardService interface {
	Config() *models.DashboardConfig
	// Tab returns the layout of one of the five tabs, or ErrUnknownSelector.
	Tab(id string) (*models.TabContent, error)
	TimeSeriesFigure(chart string) (*models.Figure, error)
	MetricFigure(choice string) (*models.Figure, error)
	ProfileOptions() []models.ProfileOption
	// ProfileSelection returns the Testing Results view of one row, or ErrNotFound.
	ProfileSelection(index int) (*models.ProfileSelection, error)
	Summary() artifacts.Summary
}

// DashboardOptions carries the settings DashboardService shows to users.
type DashboardOptions struct {
	Version        string
	MaxCount       int
	HistoryEnabled bool
}

type dashboardService struct {
	store      *artifacts.Store
	metrics    *charts.MetricsRenderer
	content    *content.Content
	opts       DashboardOptions
	timeSeries map[string]*models.Figure
	options    []models.ProfileOption
	logger     *zap.Logger
}

var _ DashboardService = (*dashboardService)(nil)

// NewDashboardService builds the dashboard views over a loaded store.
func NewDashboardService(store *artifacts.Store, opts DashboardOptions, logger *zap.Logger) (DashboardService, error) {
	metrics, err := charts.NewMetricsRenderer(store.Evaluation())
	if err != nil {
		return nil, err
	}

	c, err := content.Load()
	if err != nil {
		return nil, err
	}

	profiles := store.Profiles()
	options := make([]models.ProfileOption, len(profiles))
	for i, p := range profiles {
		options[i] = models.ProfileOption{Label: p.Username, Value: p.Index}
	}

	s := &dashboardService{
		store:   store,
		metrics: metrics,
		content: c,
		opts:    opts,
		timeSeries: map[string]*models.Figure{
			charts.ChartGrowth:    charts.GrowthFigure(store.Growth()),
			charts.ChartDiscovery: charts.DiscoveryFigure(store.Growth()),
			charts.ChartForecast:  charts.ForecastFigure(store.Series(), store.Forecast()),
		},
		options: options,
		logger:  logger.Named("dashboard-service"),
	}

	s.logger.Info("Dashboard ready",
		zap.Int("profiles", len(options)),
		zap.String("growth_change", charts.PercentChange(store.Growth())),
		zap.Float64("auc", metrics.AUC()))

	return s, nil
}

func (s *dashboardService) Config() *models.DashboardConfig {
	return &models.DashboardConfig{
		Title:          s.content.Title,
		Version:        s.opts.Version,
		Tabs:           models.Tabs,
		DefaultTab:     models.TabIntroduction,
		MetricChoices:  models.MetricChoices,
		DefaultChoice:  models.MetricChoices[0].Label,
		DefaultProfile: 0,
		MaxCount:       s.opts.MaxCount,
		HistoryEnabled: s.opts.HistoryEnabled,
	}
}

func (s *dashboardService) Tab(id string) (*models.TabContent, error) {
	var label string
	for _, t := range models.Tabs {
		if t.ID == id {
			label = t.Label
			break
		}
	}
	if label == "" {
		return nil, fmt.Errorf("tab %q: %w", id, apperrors.ErrUnknownSelector)
	}

	tab := &models.TabContent{ID: id, Label: label}

	switch id {
	case models.TabIntroduction:
		intro := s.content.Introduction
		tab.Heading = intro.Heading
		tab.Intro = &models.IntroContent{
			Lead:        intro.Lead,
			Bullets:     intro.Bullets,
			LinkText:    intro.LinkText,
			LinkURL:     intro.LinkURL,
			LogoDataURI: s.store.LogoDataURI(),
		}

	case models.TabTimeSeries:
		for _, sec := range s.content.TimeSeries.Sections {
			fig, err := s.TimeSeriesFigure(sec.Chart)
			if err != nil {
				return nil, err
			}
			tab.Sections = append(tab.Sections, models.FigureSection{
				ID:      sec.ID,
				Heading: sec.Heading,
				Figure:  fig,
				PNGURL:  "/api/timeseries/" + sec.Chart + "/png",
			})
		}

	case models.TabModelEvaluation:
		me := s.content.ModelEvaluation
		def := models.MetricChoices[0]
		fig, err := s.metrics.Render(def.Label)
		if err != nil {
			return nil, err
		}
		tab.Heading = me.Heading
		tab.MetricChoices = models.MetricChoices
		tab.DefaultChoice = def.Label
		tab.Sections = []models.FigureSection{{
			ID:     me.FigureID,
			Figure: fig,
			PNGURL: "/api/metrics/" + def.Slug + "/png",
		}}

	case models.TabTestingResults:
		tr := s.content.TestingResults
		def := 0
		sel, err := s.ProfileSelection(def)
		if err != nil {
			return nil, err
		}
		tab.Heading = tr.Heading
		tab.Prompt = tr.Prompt
		tab.ProfileOptions = s.options
		tab.DefaultProfile = &def
		tab.Selection = sel

	case models.TabUserInputs:
		ui := s.content.UserInputs
		tab.Heading = ui.Heading
		tab.SubmitLabel = ui.SubmitLabel
		tab.Inputs = s.formInputs(ui.Inputs)
	}

	return tab, nil
}

func (s *dashboardService) formInputs(inputs []content.Input) []models.FormInput {
	defaults := models.DefaultPredictionRequest()
	values := map[string]float64{
		"mediacount":          defaults.MediaCount,
		"followers":           defaults.Followers,
		"followees":           defaults.Followees,
		"is_private":          defaults.IsPrivate,
		"is_business_account": defaults.IsBusinessAccount,
		"has_public_story":    defaults.HasPublicStory,
	}

	out := make([]models.FormInput, 0, len(inputs))
	for _, in := range inputs {
		fi := models.FormInput{ID: in.ID, Label: in.Label, Value: values[in.ID]}
		switch in.Kind {
		case content.KindCount:
			lo, hi, step := 0.0, float64(s.opts.MaxCount), 1.0
			fi.Type = "number"
			fi.Min, fi.Max, fi.Step = &lo, &hi, &step
		case content.KindFlag:
			fi.Type = "radio"
			fi.Options = []float64{0, 1}
		}
		out = append(out, fi)
	}
	return out
}

func (s *dashboardService) TimeSeriesFigure(chart string) (*models.Figure, error) {
	fig, ok := s.timeSeries[chart]
	if !ok {
		return nil, fmt.Errorf("time series chart %q: %w", chart, apperrors.ErrUnknownSelector)
	}
	return fig, nil
}

func (s *dashboardService) MetricFigure(choice string) (*models.Figure, error) {
	return s.metrics.Render(choice)
}

func (s *dashboardService) ProfileOptions() []models.ProfileOption {
	return s.options
}

func (s *dashboardService) ProfileSelection(index int) (*models.ProfileSelection, error) {
	p, err := s.store.Profile(index)
	if err != nil {
		return nil, err
	}

	row := make([]any, 0, len(models.FeatureNames))
	for _, v := range p.Features.Vector() {
		row = append(row, cellValue(v))
	}

	return &models.ProfileSelection{
		Index:           p.Index,
		Username:        p.Username,
		SelectedText:    `You have selected "` + p.Username + `"`,
		ProbabilityText: fmt.Sprintf("Predicted probability of following is %d%%, Actual status is %s", models.RoundPercent(p.FollowerProbability), p.Actual),
		Probability:     p.FollowerProbability,
		Actual:          p.Actual,
		Characteristics: models.Table{
			Columns: models.FeatureNames,
			Rows:    [][]any{row},
		},
	}, nil
}

func (s *dashboardService) Summary() artifacts.Summary {
	return s.store.Summary()
}

// cellValue renders whole numbers without a fractional part.
func cellValue(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int64(v)
	}
	return v
}

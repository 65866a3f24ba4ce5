package models

// Tab ids of the dashboard.
const (
	TabIntroduction    = "tab-1-template"
	TabTimeSeries      = "tab-2-template"
	TabModelEvaluation = "tab-3-template"
	TabTestingResults  = "tab-4-template"
	TabUserInputs      = "tab-5-template"
)

// Tab is one entry of the tab bar.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{ID: TabIntroduction, Label: "Introduction"},
	{ID: TabTimeSeries, Label: "Time Series"},
	{ID: TabModelEvaluation, Label: "Model Evaluation"},
	{ID: TabTestingResults, Label: "Testing Results"},
	{ID: TabUserInputs, Label: "User Inputs"},
}

// MetricChoice is one option of the Model Evaluation selector.
// Slug is the URL-safe alias of Label.
type MetricChoice struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// MetricChoices lists the selector options in display order.
var MetricChoices = []MetricChoice{
	{Label: "Comparison of Models", Slug: "comparison"},
	{Label: "Final Model Metrics", Slug: "final-metrics"},
	{Label: "ROC-AUC", Slug: "roc-auc"},
	{Label: "Confusion Matrix", Slug: "confusion-matrix"},
	{Label: "Feature Importance", Slug: "feature-importance"},
}

// LookupMetricChoice resolves a label or slug.
func LookupMetricChoice(value string) (MetricChoice, bool) {
	for _, c := range MetricChoices {
		if c.Label == value || c.Slug == value {
			return c, true
		}
	}
	return MetricChoice{}, false
}

// IntroContent is the static copy of the Introduction tab.
type IntroContent struct {
	Lead        string   `json:"lead"`
	Bullets     []string `json:"bullets"`
	LinkText    string   `json:"link_text"`
	LinkURL     string   `json:"link_url"`
	LogoDataURI string   `json:"logo_data_uri,omitempty"`
}

// FigureSection is a headed chart on a tab.
type FigureSection struct {
	ID      string  `json:"id"`
	Heading string  `json:"heading"`
	Figure  *Figure `json:"figure"`
	PNGURL  string  `json:"png_url"`
}

// FormInput describes one control of the User Inputs form.
type FormInput struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Type    string    `json:"type"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Step    *float64  `json:"step,omitempty"`
	Options []float64 `json:"options,omitempty"`
	Value   float64   `json:"value"`
}

// TabContent is the layout descriptor the UI renders for one tab.
// Only the fields relevant to the tab are set.
type TabContent struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Heading string `json:"heading,omitempty"`

	Intro *IntroContent `json:"intro,omitempty"`

	Sections []FigureSection `json:"sections,omitempty"`

	MetricChoices []MetricChoice `json:"metric_choices,omitempty"`
	DefaultChoice string         `json:"default_choice,omitempty"`

	Prompt         string            `json:"prompt,omitempty"`
	ProfileOptions []ProfileOption   `json:"profile_options,omitempty"`
	DefaultProfile *int              `json:"default_profile,omitempty"`
	Selection      *ProfileSelection `json:"selection,omitempty"`

	Inputs      []FormInput `json:"inputs,omitempty"`
	SubmitLabel string      `json:"submit_label,omitempty"`
}

// DashboardConfig is what the UI needs before rendering any tab.
type DashboardConfig struct {
	Title          string         `json:"title"`
	Version        string         `json:"version"`
	Tabs           []Tab          `json:"tabs"`
	DefaultTab     string         `json:"default_tab"`
	MetricChoices  []MetricChoice `json:"metric_choices"`
	DefaultChoice  string         `json:"default_choice"`
	DefaultProfile int            `json:"default_profile"`
	MaxCount       int            `json:"max_count"`
	HistoryEnabled bool           `json:"history_enabled"`
}

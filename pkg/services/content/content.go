// Package content holds the static copy of the dashboard tabs.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var raw []byte

// Input kinds of the User Inputs form.
const (
	KindCount = "count"
	KindFlag  = "flag"
)

// Content is the parsed content.yaml.
type Content struct {
	Title           string          `yaml:"title"`
	Introduction    Introduction    `yaml:"introduction"`
	TimeSeries      TimeSeries      `yaml:"time_series"`
	ModelEvaluation ModelEvaluation `yaml:"model_evaluation"`
	TestingResults  TestingResults  `yaml:"testing_results"`
	UserInputs      UserInputs      `yaml:"user_inputs"`
}

type Introduction struct {
	Heading  string   `yaml:"heading"`
	Lead     string   `yaml:"lead"`
	Bullets  []string `yaml:"bullets"`
	LinkText string   `yaml:"link_text"`
	LinkURL  string   `yaml:"link_url"`
}

type TimeSeries struct {
	Sections []Section `yaml:"sections"`
}

type Section struct {
	Chart   string `yaml:"chart"`
	ID      string `yaml:"id"`
	Heading string `yaml:"heading"`
}

type ModelEvaluation struct {
	Heading  string `yaml:"heading"`
	FigureID string `yaml:"figure_id"`
}

type TestingResults struct {
	Heading string `yaml:"heading"`
	Prompt  string `yaml:"prompt"`
}

type UserInputs struct {
	Heading     string  `yaml:"heading"`
	SubmitLabel string  `yaml:"submit_label"`
	Inputs      []Input `yaml:"inputs"`
}

type Input struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Kind  string `yaml:"kind"`
}

// Load parses the embedded content.
func Load() (*Content, error) {
	return Parse(raw)
}

// Parse decodes and checks a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard content: %w", err)
	}
	if c.Title == "" {
		return nil, fmt.Errorf("dashboard content: title is required")
	}
	for _, in := range c.UserInputs.Inputs {
		if in.Kind != KindCount && in.Kind != KindFlag {
			return nil, fmt.Errorf("dashboard content: input %q has unknown kind %q", in.ID, in.Kind)
		}
	}
	return &c, nil
}

package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Analysis is the structured deconstruction of a paper returned by the
// extraction call. It is created once per upload and never mutated.
type Analysis struct {
	Title                   string      `json:"title"`
	Authors                 []string    `json:"authors"`
	JournalFit              string      `json:"journalFit"`
	ResearchQuestion        string      `json:"researchQuestion"`
	Methodology             Methodology `json:"methodology"`
	KeyFindings             []string    `json:"keyFindings"`
	TheoreticalContribution string      `json:"theoreticalContribution"`
	ManagerialImplications  string      `json:"managerialImplications"`
	Critique                Critique    `json:"critique"`
}

// Methodology describes the modelling or empirical approach of a paper.
type Methodology struct {
	Type           string   `json:"type"`
	KeyAssumptions []string `json:"keyAssumptions"`
	ModelSetup     string   `json:"modelSetup"`
}

// Critique holds the referee-style assessment of a paper.
type Critique struct {
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	ReviewerPerspective string   `json:"reviewerPerspective"`
}

// MandatoryAnalysisFields lists the JSON keys every extraction result must carry.
var MandatoryAnalysisFields = []string{
	"title",
	"researchQuestion",
	"methodology",
	"theoreticalContribution",
	"critique",
}

// ParseAnalysis decodes provider output into an Analysis.
//
// Parsing is strict: malformed JSON, unknown fields, mistyped values, trailing
// content and absent or null mandatory fields are rejected with ErrInvalidAnalysis.
// Nothing is repaired.
func ParseAnalysis(data []byte) (*Analysis, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}

	var missing []string
	for _, key := range MandatoryAnalysisFields {
		raw, ok := fields[key]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidAnalysis, strings.Join(missing, ", "))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var analysis Analysis
	if err := dec.Decode(&analysis); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after JSON object", ErrInvalidAnalysis)
	}

	analysis.normalise()
	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// Validate checks the mandatory text fields are not blank.
func (a *Analysis) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil analysis", ErrInvalidAnalysis)
	}

	blank := make([]string, 0, 3)
	if strings.TrimSpace(a.Title) == "" {
		blank = append(blank, "title")
	}
	if strings.TrimSpace(a.ResearchQuestion) == "" {
		blank = append(blank, "researchQuestion")
	}
	if strings.TrimSpace(a.TheoreticalContribution) == "" {
		blank = append(blank, "theoreticalContribution")
	}
	if len(blank) > 0 {
		return fmt.Errorf("%w: blank %s", ErrInvalidAnalysis, strings.Join(blank, ", "))
	}
	return nil
}

// normalise replaces absent lists with empty ones so renderers never see nil.
func (a *Analysis) normalise() {
	a.Authors = nonNil(a.Authors)
	a.KeyFindings = nonNil(a.KeyFindings)
	a.Methodology.KeyAssumptions = nonNil(a.Methodology.KeyAssumptions)
	a.Critique.Strengths = nonNil(a.Critique.Strengths)
	a.Critique.Weaknesses = nonNil(a.Critique.Weaknesses)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

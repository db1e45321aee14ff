// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/davetashner/dupscan/internal/model"
)

func init() {
	RegisterFormatter(NewSARIFFormatter())
}

// SARIFFormatter writes violations as a SARIF v2.1.0 JSON document.
type SARIFFormatter struct{}

var _ Formatter = (*SARIFFormatter)(nil)

// NewSARIFFormatter returns a new SARIFFormatter.
func NewSARIFFormatter() *SARIFFormatter {
	return &SARIFFormatter{}
}

// Name returns the format name.
func (f *SARIFFormatter) Name() string { return "sarif" }

// Format writes the report as a SARIF v2.1.0 document to w.
func (f *SARIFFormatter) Format(r Report, w io.Writer) error {
	data, err := json.MarshalIndent(buildDocument(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write sarif trailing newline: %w", err)
	}
	return nil
}

type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	AutomationDetails *sarifAutomationDetails `json:"automationDetails,omitempty"`
	Results           []sarifResult           `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                `json:"id"`
	ShortDescription sarifMessage          `json:"shortDescription"`
	DefaultConfig    *sarifReportingConfig `json:"defaultConfiguration,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifReportingConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	RelatedLocations    []sarifLocation   `json:"relatedLocations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine,omitempty"`
}

var ruleDescriptions = map[model.Category]string{
	model.CategoryDuplicateCode:     "Block of code duplicated across locations",
	model.CategoryDuplicateConstant: "Constant defined under the same name in several files",
	model.CategorySimilarConstant:   "Constants with near-identical names in several files",
}

func buildDocument(r Report) sarifDocument {
	rules := make([]sarifRule, len(model.Categories))
	ruleIndex := make(map[model.Category]int, len(model.Categories))
	for i, c := range model.Categories {
		ruleIndex[c] = i
		rules[i] = sarifRule{
			ID:               string(c),
			ShortDescription: sarifMessage{Text: ruleDescriptions[c]},
			DefaultConfig:    &sarifReportingConfig{Level: "warning"},
		}
	}

	results := make([]sarifResult, 0, len(r.Violations))
	for _, v := range r.Violations {
		res := sarifResult{
			RuleID:              string(v.Category),
			RuleIndex:           ruleIndex[v.Category],
			Level:               "warning",
			Message:             sarifMessage{Text: v.Message},
			Locations:           []sarifLocation{physical(v.Primary)},
			PartialFingerprints: map[string]string{"dupscan/v1": fingerprint(v)},
		}
		for i, rel := range v.Related {
			loc := physical(rel.Location)
			id := i + 1
			loc.ID = &id
			if rel.Snippet != "" {
				loc.Message = &sarifMessage{Text: rel.Snippet}
			}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		results = append(results, res)
	}

	version := r.Version
	if version == "" {
		version = "dev"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "dupscan",
			Version:        version,
			InformationURI: "https://github.com/davetashner/dupscan",
			Rules:          rules,
		}},
		Results: results,
	}
	if r.RunID != "" {
		run.AutomationDetails = &sarifAutomationDetails{GUID: r.RunID}
	}
	return sarifDocument{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
}

func physical(l model.Location) sarifLocation {
	return sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: l.File, URIBaseID: "%SRCROOT%"},
		Region:           sarifRegion{StartLine: l.StartLine, EndLine: l.EndLine},
	}}
}

// fingerprint identifies a violation by category and member files, so it
// survives line shifts.
func fingerprint(v model.Violation) string {
	parts := []string{string(v.Category), v.Primary.File}
	for _, rel := range v.Related {
		parts = append(parts, rel.Location.File)
	}
	if v.Category != model.CategoryDuplicateCode {
		parts = append(parts, v.Snippet)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "\x00")))
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davetashner/dupscan/internal/engine"
	"github.com/davetashner/dupscan/internal/model"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps violations with metadata for the JSON output format.
type JSONEnvelope struct {
	Violations []model.Violation `json:"violations"`
	Metadata   JSONMetadata      `json:"metadata"`
}

// JSONMetadata describes the run that produced the violations.
type JSONMetadata struct {
	RunID       string         `json:"run_id"`
	Root        string         `json:"root,omitempty"`
	Version     string         `json:"version,omitempty"`
	TotalCount  int            `json:"total_count"`
	GeneratedAt string         `json:"generated_at"`
	Stats       engine.Stats   `json:"stats"`
	ByCategory  map[string]int `json:"by_category"`
}

// JSONFormatter writes violations as a JSON object with a metadata envelope.
type JSONFormatter struct {
	// Compact forces single-line output. When false, output is pretty-printed
	// for terminals and non-file writers and compact for pipes and files.
	Compact bool
}

var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the report as one JSON document to w.
func (f *JSONFormatter) Format(r Report, w io.Writer) error {
	violations := r.Violations
	if violations == nil {
		violations = []model.Violation{}
	}
	for i := range violations {
		if violations[i].Related == nil {
			violations[i].Related = []model.RelatedLocation{}
		}
	}
	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	byCategory := make(map[string]int, len(model.Categories))
	for i, n := range categoryCounts(violations) {
		byCategory[string(model.Categories[i])] = n
	}

	envelope := JSONEnvelope{
		Violations: violations,
		Metadata: JSONMetadata{
			RunID:       r.RunID,
			Root:        r.Root,
			Version:     r.Version,
			TotalCount:  len(violations),
			GeneratedAt: generated.UTC().Format("2006-01-02T15:04:05Z"),
			Stats:       r.Stats,
			ByCategory:  byCategory,
		},
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and compacts for pipes, unless
// Compact is set.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false
		}
		return fi.Mode()&os.ModeCharDevice == 0
	}
	return false
}

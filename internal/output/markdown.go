package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes violations as a Markdown summary suitable for a
// pull-request comment.
type MarkdownFormatter struct{}

var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes a title, a per-category count table and one section per
// category that has violations.
func (m *MarkdownFormatter) Format(r Report, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Duplication Report\n\n**Violations:** %d | **Files scanned:** %d\n\n",
		len(r.Violations), r.Stats.FilesScanned); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(r.Violations) == 0 {
		return nil
	}

	counts := categoryCounts(r.Violations)
	if err := writeCountTable(w, counts); err != nil {
		return err
	}
	for i, c := range model.Categories {
		if counts[i] == 0 {
			continue
		}
		if err := writeCategorySection(w, c, r.Violations); err != nil {
			return err
		}
	}
	return nil
}

func writeCountTable(w io.Writer, counts []int) error {
	var b strings.Builder
	b.WriteString("| Category | Count |\n|----------|-------|\n")
	for i, c := range model.Categories {
		fmt.Fprintf(&b, "| %s | %d |\n", c, counts[i])
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write count table: %w", err)
	}
	return nil
}

func writeCategorySection(w io.Writer, c model.Category, vs []model.Violation) error {
	if _, err := fmt.Fprintf(w, "## %s\n\n", c); err != nil {
		return fmt.Errorf("write category heading: %w", err)
	}
	for _, v := range vs {
		if v.Category != c {
			continue
		}
		locs := []string{"`" + span(v.Primary) + "`"}
		for _, rel := range v.Related {
			locs = append(locs, "`"+span(rel.Location)+"`")
		}
		if _, err := fmt.Fprintf(w, "- %s: %s\n", v.Message, strings.Join(locs, ", ")); err != nil {
			return fmt.Errorf("write violation: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return fmt.Errorf("write section end: %w", err)
	}
	return nil
}

// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/davetashner/dupscan/internal/model"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
	colorFaint  = color.New(color.Faint)
)

// TextFormatter writes one block per violation followed by a summary table.
// Colour follows fatih/color's terminal detection.
type TextFormatter struct {
	// Snippets prints the primary snippet under each violation.
	Snippets bool
}

var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a TextFormatter that prints snippets.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{Snippets: true}
}

// Name returns the format name.
func (f *TextFormatter) Name() string { return "text" }

// Format writes the report to w.
func (f *TextFormatter) Format(r Report, w io.Writer) error {
	for _, v := range r.Violations {
		if err := f.writeViolation(w, v); err != nil {
			return err
		}
	}
	return writeSummary(w, r)
}

func (f *TextFormatter) writeViolation(w io.Writer, v model.Violation) error {
	label := string(v.Category)
	if v.Tier != model.TierNone {
		label += "/" + string(v.Tier)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n  %s\n", colorBold.Sprint(span(v.Primary)), colorCategory(v.Category).Sprintf("[%s]", label), v.Message); err != nil {
		return fmt.Errorf("write violation: %w", err)
	}
	if f.Snippets && v.Snippet != "" {
		for _, line := range strings.Split(v.Snippet, "\n") {
			if _, err := fmt.Fprintf(w, "    %s\n", colorFaint.Sprint(line)); err != nil {
				return fmt.Errorf("write snippet: %w", err)
			}
		}
	}
	for _, rel := range v.Related {
		if _, err := fmt.Fprintf(w, "  also at %s\n", span(rel.Location)); err != nil {
			return fmt.Errorf("write related location: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("write violation: %w", err)
	}
	return nil
}

func writeSummary(w io.Writer, r Report) error {
	if len(r.Violations) == 0 {
		if _, err := fmt.Fprintf(w, "%s (%d files scanned)\n", colorGreen.Sprint("No duplication found"), r.Stats.FilesScanned); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
	table.Header([]string{"Category", "Violations"})
	for i, n := range categoryCounts(r.Violations) {
		if err := table.Append([]string{string(model.Categories[i]), fmt.Sprintf("%d", n)}); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	table.Footer("Total", fmt.Sprintf("%d", len(r.Violations)))
	if err := table.Render(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	skipped := ""
	if r.Stats.FilesSkipped > 0 {
		skipped = fmt.Sprintf(", %d skipped", r.Stats.FilesSkipped)
	}
	if _, err := fmt.Fprintf(w, "\n%d files scanned%s\n", r.Stats.FilesScanned, skipped); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func colorCategory(c model.Category) *color.Color {
	switch c {
	case model.CategoryDuplicateCode:
		return colorYellow
	case model.CategoryDuplicateConstant:
		return colorRed
	default:
		return colorCyan
	}
}

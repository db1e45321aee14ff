// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package blocks turns a file's canonical token stream into fingerprinted
// candidate blocks: fixed-size sliding windows of canonical lines.
package blocks

import (
	"log/slog"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

// Options controls block extraction.
type Options struct {
	MinLines  int
	MinTokens int
	Filters   Filters
	Hash      Algorithm
}

// Stats counts what happened to candidate windows in one file.
type Stats struct {
	Windows  int
	Emitted  int
	TooSmall int
	Filtered map[string]int
}

// Extractor produces CodeBlocks from source files. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// NewExtractor returns an Extractor for opts.
func NewExtractor(opts Options) *Extractor {
	if opts.Hash == "" {
		opts.Hash = XXHash
	}
	return &Extractor{opts: opts}
}

// Extract returns one CodeBlock per qualifying window. A window spans
// MinLines consecutive canonical lines and must hold at least MinTokens
// tokens; structural filters may discard it.
func (e *Extractor) Extract(file *model.SourceFile) ([]model.CodeBlock, Stats) {
	stats := Stats{Filtered: make(map[string]int)}
	if file == nil || e.opts.MinLines <= 0 {
		return nil, stats
	}
	lines, stmts := canonicalLines(file.Tokens)
	n := e.opts.MinLines
	if len(lines) < n {
		return nil, stats
	}

	out := make([]model.CodeBlock, 0, len(lines)-n+1)
	for i := 0; i+n <= len(lines); i++ {
		stats.Windows++
		window := lines[i : i+n]

		tokens := 0
		for _, l := range window {
			tokens += len(l.Tokens)
		}
		if tokens < e.opts.MinTokens {
			stats.TooSmall++
			continue
		}
		if reason, drop := e.opts.Filters.discard(lines, stmts, i, i+n); drop {
			stats.Filtered[reason]++
			continue
		}

		out = append(out, model.CodeBlock{
			FilePath:   file.Path,
			Language:   file.Language,
			StartLine:  window[0].Start,
			EndLine:    window[n-1].End,
			Window:     i,
			Hash:       e.opts.Hash.Fingerprint(window),
			TokenCount: tokens,
			Snippet:    snippet(window),
		})
	}
	stats.Emitted = len(out)
	slog.Debug("extracted blocks", "file", file.Path, "windows", stats.Windows, "blocks", stats.Emitted)
	return out, stats
}

func snippet(window []Line) string {
	texts := make([]string, len(window))
	for i, l := range window {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package suppress tracks the line ranges in which findings are suppressed,
// per rule category, and scans source comments for the directives that
// declare them.
package suppress

import (
	"sort"
	"sync"

	"github.com/davetashner/dupscan/internal/model"
)

// Span is an inclusive range of 1-based lines.
type Span struct {
	Start int
	End   int
}

// Spans is a set of suppressed line ranges keyed by category and file. Spans
// added without a category apply to every category. Safe for concurrent use.
type Spans struct {
	mu    sync.RWMutex
	byCat map[model.Category]map[string][]Span
	all   map[string][]Span
}

// New returns an empty set.
func New() *Spans {
	return &Spans{
		byCat: make(map[model.Category]map[string][]Span),
		all:   make(map[string][]Span),
	}
}

// Add suppresses lines start..end of file for cats, or for every category
// when cats is empty.
func (s *Spans) Add(file string, start, end int, cats ...model.Category) {
	if end < start {
		start, end = end, start
	}
	sp := Span{Start: start, End: end}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(cats) == 0 {
		s.all[file] = append(s.all[file], sp)
		return
	}
	for _, c := range cats {
		m := s.byCat[c]
		if m == nil {
			m = make(map[string][]Span)
			s.byCat[c] = m
		}
		m[file] = append(m[file], sp)
	}
}

// Covered reports whether every line of loc is suppressed for cat. Adjacent
// and overlapping spans are merged before the check.
func (s *Spans) Covered(cat model.Category, loc model.Location) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	spans := append([]Span(nil), s.all[loc.File]...)
	spans = append(spans, s.byCat[cat][loc.File]...)
	s.mu.RUnlock()
	if len(spans) == 0 {
		return false
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	cur := spans[0]
	for _, sp := range spans[1:] {
		if sp.Start <= cur.End+1 {
			if sp.End > cur.End {
				cur.End = sp.End
			}
			continue
		}
		if cur.Start <= loc.StartLine && loc.EndLine <= cur.End {
			return true
		}
		cur = sp
	}
	return cur.Start <= loc.StartLine && loc.EndLine <= cur.End
}

// Len returns the number of spans recorded.
func (s *Spans) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, sp := range s.all {
		n += len(sp)
	}
	for _, m := range s.byCat {
		for _, sp := range m {
			n += len(sp)
		}
	}
	return n
}

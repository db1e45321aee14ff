// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package suppress

import (
	"bufio"
	"bytes"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

// DefaultSpanLines is how many lines a bare ignore directive covers.
const DefaultSpanLines = 10

// directiveRe matches, inside a comment:
//
//	dupscan:ignore[categories] [N]
//	dupscan:ignore-start[categories]
//	dupscan:ignore-end
var directiveRe = regexp.MustCompile(`(?://|#|/\*|--|\*)\s*dupscan:(ignore-start|ignore-end|ignore)(?:\[([a-z, -]*)\])?(?:\s+(\d+))?`)

// Directive is one parsed suppression comment.
type Directive struct {
	Kind       string // ignore, ignore-start or ignore-end
	Line       int
	Categories []model.Category
	Count      int // lines after the directive; ignore only
}

// Parse extracts the directives in src. defaultSpan is used for ignore
// directives without an explicit count.
func Parse(src []byte, defaultSpan int) []Directive {
	if defaultSpan <= 0 {
		defaultSpan = DefaultSpanLines
	}
	if !bytes.Contains(src, []byte("dupscan:")) {
		return nil
	}
	var out []Directive
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		m := directiveRe.FindSubmatch(sc.Bytes())
		if m == nil {
			continue
		}
		d := Directive{Kind: string(m[1]), Line: line, Categories: parseCategories(string(m[2]))}
		if d.Kind == "ignore" {
			d.Count = defaultSpan
			if len(m[3]) > 0 {
				if n, err := strconv.Atoi(string(m[3])); err == nil && n > 0 {
					d.Count = n
				}
			}
		}
		out = append(out, d)
	}
	return out
}

func parseCategories(s string) []model.Category {
	var cats []model.Category
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c := model.Category(part)
		known := false
		for _, k := range model.Categories {
			if c == k {
				known = true
				break
			}
		}
		if !known {
			slog.Warn("unknown category in suppression directive", "category", part)
			continue
		}
		cats = append(cats, c)
	}
	return cats
}

// Scan parses the directives in src and records their spans for file. It
// returns how many directives were found.
//
// An ignore directive covers its own line and the Count lines after it. An
// ignore-start region runs to the next ignore-end, or to the end of the file.
func (s *Spans) Scan(file string, src []byte, defaultSpan int) int {
	dirs := Parse(src, defaultSpan)
	var open *Directive
	for i := range dirs {
		d := &dirs[i]
		switch d.Kind {
		case "ignore":
			s.Add(file, d.Line, d.Line+d.Count, d.Categories...)
		case "ignore-start":
			if open == nil {
				open = d
			}
		case "ignore-end":
			if open != nil {
				s.Add(file, open.Line, d.Line, open.Categories...)
				open = nil
			}
		}
	}
	if open != nil {
		s.Add(file, open.Line, bytes.Count(src, []byte("\n"))+1, open.Categories...)
	}
	return len(dirs)
}

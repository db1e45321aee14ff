// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

// Remediation advice per category.
const (
	adviceCode     = "extract to shared function"
	adviceConstant = "consolidate to a shared constants module"
)

// maxRelatedSnippet bounds, in runes, the text attached to each related location.
const maxRelatedSnippet = 120

// Assemble builds one violation per group, anchored at the group's first
// location by (file, line). Violations are ordered by primary location, then
// category.
func Assemble(groups []model.DuplicateGroup) []model.Violation {
	out := make([]model.Violation, 0, len(groups))
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		g.SortMembers()
		primary := g.Members[0]
		v := model.Violation{
			Category: g.Category,
			Tier:     g.Tier,
			Primary:  primary.Location,
			Snippet:  primary.Snippet,
			Message:  message(g),
		}
		for _, m := range g.Members[1:] {
			v.Related = append(v.Related, model.RelatedLocation{
				Location: m.Location,
				Snippet:  shorten(m.Snippet),
			})
		}
		out = append(out, v)
	}
	model.SortViolations(out)
	return out
}

func message(g model.DuplicateGroup) string {
	n := g.OccurrenceCount()
	switch g.Category {
	case model.CategoryDuplicateCode:
		return fmt.Sprintf("%d-line block is duplicated in %d locations; %s", g.Lines, n, adviceCode)
	case model.CategoryDuplicateConstant:
		return fmt.Sprintf("constant %s is defined in %d places; %s", g.Members[0].Name, n, adviceConstant)
	default:
		names := distinctNames(g)
		why := "look like the same value"
		switch g.Tier {
		case model.TierWordOrder:
			why = "use the same words in a different order"
		case model.TierTypo:
			why = "differ only by a likely typo"
		}
		return fmt.Sprintf("constants %s %s; %s", strings.Join(names, ", "), why, adviceConstant)
	}
}

func distinctNames(g model.DuplicateGroup) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range g.Members {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// shorten keeps the first line of s, truncated to maxRelatedSnippet runes.
func shorten(s string) string {
	first, _, more := strings.Cut(s, "\n")
	if r := []rune(first); len(r) > maxRelatedSnippet {
		return string(r[:maxRelatedSnippet-3]) + "..."
	}
	if more {
		return first + " ..."
	}
	return first
}

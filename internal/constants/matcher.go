// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package constants

import (
	"log/slog"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/davetashner/dupscan/internal/model"
)

// DefaultMaxDistance is the largest edit distance the typo tier accepts.
const DefaultMaxDistance = 2

// Rules is the matching policy for one language.
type Rules struct {
	MinOccurrences int  // distinct files a group must span
	WordSet        bool // word-order tier enabled
	EditDistance   bool // typo tier enabled
}

// Options configures a Matcher.
type Options struct {
	Default     Rules
	PerLanguage map[model.Language]Rules
	MaxDistance int
}

// Matcher groups constant declarations in three tiers: exact name, word set,
// then edit distance. A name is placed in at most one group, at the first
// tier that matches it. Single-word names only match exactly.
type Matcher struct {
	opts Options
}

// NewMatcher returns a Matcher for opts.
func NewMatcher(opts Options) *Matcher {
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = DefaultMaxDistance
	}
	if opts.Default.MinOccurrences < 2 {
		opts.Default.MinOccurrences = 2
	}
	return &Matcher{opts: opts}
}

// RulesFor returns the rules that apply to lang.
func (m *Matcher) RulesFor(lang model.Language) Rules {
	r, ok := m.opts.PerLanguage[lang]
	if !ok {
		return m.opts.Default
	}
	if r.MinOccurrences < 2 {
		r.MinOccurrences = m.opts.Default.MinOccurrences
	}
	return r
}

// Match returns every constant group found in decls. Declarations are matched
// only against others of the same language. Groups are ordered by their first
// member's location.
func (m *Matcher) Match(decls []model.ConstantDeclaration) []model.DuplicateGroup {
	byLang := make(map[model.Language][]model.ConstantDeclaration)
	for _, d := range decls {
		byLang[d.Language] = append(byLang[d.Language], d)
	}
	langs := make([]model.Language, 0, len(byLang))
	for l := range byLang {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	var groups []model.DuplicateGroup
	for _, l := range langs {
		groups = append(groups, m.matchLanguage(byLang[l], m.RulesFor(l))...)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Members[0].Location.Less(groups[j].Members[0].Location)
	})
	slog.Debug("constant matching complete", "declarations", len(decls), "groups", len(groups))
	return groups
}

func (m *Matcher) matchLanguage(decls []model.ConstantDeclaration, rules Rules) []model.DuplicateGroup {
	byName := make(map[string][]model.ConstantDeclaration)
	for _, d := range decls {
		byName[d.Name] = append(byName[d.Name], d)
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	used := make(map[string]bool)
	var groups []model.DuplicateGroup
	emit := func(key string, cat model.Category, tier model.Tier, members []string) bool {
		var ds []model.ConstantDeclaration
		for _, n := range members {
			ds = append(ds, byName[n]...)
		}
		if distinctFiles(ds) < rules.MinOccurrences {
			return false
		}
		for _, n := range members {
			used[n] = true
		}
		groups = append(groups, newGroup(key, cat, tier, ds))
		return true
	}

	// Exact.
	for _, n := range names {
		emit(string(model.TierExact)+":"+n, model.CategoryDuplicateConstant, model.TierExact, []string{n})
	}

	// Word set.
	if rules.WordSet {
		buckets := make(map[string][]string)
		var keys []string
		for _, n := range names {
			if used[n] {
				continue
			}
			key, words := WordSetKey(n)
			if words < 2 {
				continue
			}
			if _, ok := buckets[key]; !ok {
				keys = append(keys, key)
			}
			buckets[key] = append(buckets[key], n)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if len(buckets[k]) < 2 {
				continue
			}
			emit(string(model.TierWordOrder)+":"+k, model.CategorySimilarConstant, model.TierWordOrder, buckets[k])
		}
	}

	// Edit distance, seeded greedily in name order.
	if rules.EditDistance {
		var cands []string
		for _, n := range names {
			if !used[n] && multiWord(n) {
				cands = append(cands, n)
			}
		}
		for i, seed := range cands {
			if used[seed] {
				continue
			}
			ns := Normalize(seed)
			cluster := []string{seed}
			for _, other := range cands[i+1:] {
				if used[other] {
					continue
				}
				if levenshtein.ComputeDistance(ns, Normalize(other)) <= m.opts.MaxDistance {
					cluster = append(cluster, other)
				}
			}
			if len(cluster) < 2 {
				continue
			}
			emit(string(model.TierTypo)+":"+seed, model.CategorySimilarConstant, model.TierTypo, cluster)
		}
	}
	return groups
}

func newGroup(key string, cat model.Category, tier model.Tier, ds []model.ConstantDeclaration) model.DuplicateGroup {
	g := model.DuplicateGroup{Key: key, Category: cat, Tier: tier}
	for _, d := range ds {
		snippet := d.Name
		if d.Literal != "" {
			snippet += " = " + d.Literal
		}
		g.Members = append(g.Members, model.Member{
			Location: model.Location{File: d.FilePath, StartLine: d.Line, EndLine: d.Line},
			Language: d.Language,
			Snippet:  snippet,
			Name:     d.Name,
		})
	}
	g.SortMembers()
	return g
}

func distinctFiles(ds []model.ConstantDeclaration) int {
	files := make(map[string]struct{}, len(ds))
	for _, d := range ds {
		files[d.FilePath] = struct{}{}
	}
	return len(files)
}

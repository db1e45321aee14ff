// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

// winKey identifies one window of one file.
type winKey struct {
	file   string
	window int
}

// matchBlocks runs the duplicate-code matcher: one store query, then per-hash
// filtering, threshold checks and merging of adjacent windows.
func (e *Engine) matchBlocks(ctx context.Context) ([]model.DuplicateGroup, error) {
	byHash, err := e.index.QueryDuplicateBlocks(e.minBlockQuery())
	if err != nil {
		return nil, err
	}
	hashes := make([]uint64, 0, len(byHash))
	for h := range byHash {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	var clusters [][]model.CodeBlock
	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kept := e.visibleBlocks(byHash[h])
		for _, part := range e.partition(kept) {
			part = dropOverlaps(part)
			if len(part) >= e.blockThreshold(part) {
				clusters = append(clusters, part)
			}
		}
	}

	var groups []model.DuplicateGroup
	for _, chain := range mergeAdjacent(clusters) {
		chain = dropOverlaps(chain)
		if len(chain) < e.blockThreshold(chain) {
			continue
		}
		groups = append(groups, codeGroup(chain))
	}
	slog.Debug("duplicate-code matching complete", "hashes", len(hashes), "windows", len(clusters), "groups", len(groups))
	return groups, nil
}

// minBlockQuery is the loosest threshold of any language, so the store
// returns every hash some language could report.
func (e *Engine) minBlockQuery() int {
	n := e.cfg.MinOccurrences
	for _, l := range model.Languages {
		if m := e.cfg.BlockMinOccurrences(l); m < n {
			n = m
		}
	}
	return n
}

// blockThreshold is the strictest threshold among the languages present.
func (e *Engine) blockThreshold(bs []model.CodeBlock) int {
	n := 2
	for _, b := range bs {
		if m := e.cfg.BlockMinOccurrences(b.Language); m > n {
			n = m
		}
	}
	return n
}

// visibleBlocks drops blocks in ignored paths or inside suppressed spans.
func (e *Engine) visibleBlocks(bs []model.CodeBlock) []model.CodeBlock {
	out := make([]model.CodeBlock, 0, len(bs))
	for _, b := range bs {
		if e.ignored(b.FilePath) {
			continue
		}
		loc := model.Location{File: b.FilePath, StartLine: b.StartLine, EndLine: b.EndLine}
		if e.spans.Covered(model.CategoryDuplicateCode, loc) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// partition splits a hash group by exact snippet text when verification is
// enabled, guarding against fingerprint collisions.
func (e *Engine) partition(bs []model.CodeBlock) [][]model.CodeBlock {
	if !e.cfg.VerifySnippets || len(bs) < 2 {
		return [][]model.CodeBlock{bs}
	}
	bySnippet := make(map[string][]model.CodeBlock)
	var order []string
	for _, b := range bs {
		if _, ok := bySnippet[b.Snippet]; !ok {
			order = append(order, b.Snippet)
		}
		bySnippet[b.Snippet] = append(bySnippet[b.Snippet], b)
	}
	if len(order) > 1 {
		slog.Debug("fingerprint collision", "hash", fmt.Sprintf("%016x", bs[0].Hash), "variants", len(order))
	}
	out := make([][]model.CodeBlock, 0, len(order))
	for _, s := range order {
		out = append(out, bySnippet[s])
	}
	return out
}

// dropOverlaps keeps, within each file, only blocks that do not overlap an
// earlier kept block. Input order does not matter; output is sorted by
// (file, start line).
func dropOverlaps(bs []model.CodeBlock) []model.CodeBlock {
	sorted := append([]model.CodeBlock(nil), bs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FilePath != sorted[j].FilePath {
			return sorted[i].FilePath < sorted[j].FilePath
		}
		return sorted[i].StartLine < sorted[j].StartLine
	})
	out := sorted[:0]
	lastEnd := make(map[string]int)
	for _, b := range sorted {
		if end, ok := lastEnd[b.FilePath]; ok && b.StartLine <= end {
			continue
		}
		lastEnd[b.FilePath] = b.EndLine
		out = append(out, b)
	}
	return out
}

// mergeAdjacent chains clusters whose every member continues one window
// later into the same other cluster, and returns one merged occurrence list
// per chain. A ten-line duplicate found with six-line windows becomes one
// group rather than five.
func mergeAdjacent(clusters [][]model.CodeBlock) [][]model.CodeBlock {
	owner := make(map[winKey]int)
	member := make(map[winKey]model.CodeBlock)
	for i, c := range clusters {
		for _, b := range c {
			k := winKey{b.FilePath, b.Window}
			owner[k] = i
			member[k] = b
		}
	}

	succ := make([]int, len(clusters))
	hasPred := make([]bool, len(clusters))
	for i, c := range clusters {
		succ[i] = -1
		next := -1
		for _, b := range c {
			j, ok := owner[winKey{b.FilePath, b.Window + 1}]
			if !ok || j == i || (next != -1 && j != next) {
				next = -1
				break
			}
			next = j
		}
		if next != -1 && len(clusters[next]) == len(c) && !hasPred[next] {
			succ[i] = next
			hasPred[next] = true
		}
	}

	var out [][]model.CodeBlock
	for i, c := range clusters {
		if hasPred[i] {
			continue
		}
		merged := make([]model.CodeBlock, len(c))
		copy(merged, c)
		lastWin := make([]int, len(c))
		for m := range merged {
			lastWin[m] = merged[m].Window
		}
		seen := map[int]bool{i: true}
		for j := succ[i]; j != -1 && !seen[j]; j = succ[j] {
			seen[j] = true
			for m := range merged {
				next := member[winKey{merged[m].FilePath, lastWin[m] + 1}]
				lastWin[m] = next.Window
				merged[m].EndLine = next.EndLine
				merged[m].Snippet += "\n" + lastLine(next.Snippet)
				if next.TokenCount > merged[m].TokenCount {
					merged[m].TokenCount = next.TokenCount
				}
			}
		}
		out = append(out, merged)
	}
	return out
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func codeGroup(bs []model.CodeBlock) model.DuplicateGroup {
	g := model.DuplicateGroup{
		Key:      fmt.Sprintf("%016x", bs[0].Hash),
		Category: model.CategoryDuplicateCode,
		Lines:    strings.Count(bs[0].Snippet, "\n") + 1,
		Tokens:   bs[0].TokenCount,
	}
	for _, b := range bs {
		g.Members = append(g.Members, model.Member{
			Location: model.Location{File: b.FilePath, StartLine: b.StartLine, EndLine: b.EndLine},
			Language: b.Language,
			Snippet:  b.Snippet,
		})
	}
	g.SortMembers()
	return g
}

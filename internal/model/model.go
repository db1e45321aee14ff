// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package model defines the core domain types shared by the dupscan engine,
// its language front-ends and its reporters.
package model

import (
	"fmt"
	"sort"
)

// Language identifies the source language a file was tokenized as.
type Language string

// Supported languages.
const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangUnknown    Language = "unknown"
)

// Languages lists every language that has a front-end, in stable order.
var Languages = []Language{LangGo, LangJavaScript, LangPython, LangTypeScript}

// Known reports whether l is a language with a front-end.
func (l Language) Known() bool {
	for _, k := range Languages {
		if l == k {
			return true
		}
	}
	return false
}

// TokenKind classifies a canonical token.
type TokenKind uint8

// Token kinds.
const (
	KindPunct TokenKind = iota
	KindKeyword
	KindIdent
	KindLiteral
)

// Token is one element of a canonical token stream. Comments and whitespace
// never appear as tokens.
type Token struct {
	Text string
	Kind TokenKind
	Line int // 1-based line of the token's first byte
}

// Binding is a top-level (module or namespace scope) name binding reported by
// a language front-end. Whether it counts as a named constant is decided by
// the constant extractor.
type Binding struct {
	Name  string
	Line  int
	Value string // literal source text, not evaluated
}

// SourceFile is the output of a language front-end for one file.
type SourceFile struct {
	Path     string
	Language Language
	Tokens   []Token
	Bindings []Binding
	Lines    int // physical line count of the original file
}

// CodeBlock is a fixed-size window of canonical lines eligible for duplicate
// comparison. It is immutable once created.
type CodeBlock struct {
	FilePath   string
	Language   Language
	StartLine  int
	EndLine    int
	Window     int // ordinal of this window within its file
	Hash       uint64
	TokenCount int
	Snippet    string // canonical text, one canonical line per row
}

// Lines returns the number of physical lines the block spans.
func (b CodeBlock) Lines() int { return b.EndLine - b.StartLine + 1 }

// ConstantDeclaration is a named-constant-like top-level binding.
type ConstantDeclaration struct {
	Name           string
	NormalizedName string // case-folded name
	FilePath       string
	Line           int
	Literal        string
	Language       Language
}

// Location identifies a span of lines in a file.
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// String renders the location as file:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.StartLine)
}

// Less orders locations by file path, then start line, then end line.
func (l Location) Less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	if l.StartLine != o.StartLine {
		return l.StartLine < o.StartLine
	}
	return l.EndLine < o.EndLine
}

// Overlaps reports whether two locations share at least one line of the same file.
func (l Location) Overlaps(o Location) bool {
	return l.File == o.File && l.StartLine <= o.EndLine && o.StartLine <= l.EndLine
}

// SortLocations sorts locations in place by (file, start line).
func SortLocations(locs []Location) {
	sort.SliceStable(locs, func(i, j int) bool { return locs[i].Less(locs[j]) })
}

// Member is one location of a DuplicateGroup along with its display text.
type Member struct {
	Location Location
	Language Language
	Snippet  string
	Name     string // constant name; empty for code blocks
}

// DuplicateGroup is a set of two or more locations sharing a key: a block
// fingerprint or a fuzzy-match bucket id.
type DuplicateGroup struct {
	Key      string
	Category Category
	Tier     Tier
	Lines    int // lines per occurrence, code blocks only
	Tokens   int // tokens per occurrence, code blocks only
	Members  []Member
}

// OccurrenceCount returns the number of locations in the group.
func (g DuplicateGroup) OccurrenceCount() int { return len(g.Members) }

// SortMembers orders the members by (file, start line).
func (g *DuplicateGroup) SortMembers() {
	sort.SliceStable(g.Members, func(i, j int) bool {
		return g.Members[i].Location.Less(g.Members[j].Location)
	})
}

// Category names the rule a violation belongs to.
type Category string

// Rule categories.
const (
	CategoryDuplicateCode     Category = "duplicate-code"
	CategoryDuplicateConstant Category = "duplicate-constant"
	CategorySimilarConstant   Category = "similar-constant"
)

// Categories lists all rule categories.
var Categories = []Category{CategoryDuplicateCode, CategoryDuplicateConstant, CategorySimilarConstant}

// Tier is the fuzzy-match tier that produced a constant group.
type Tier string

// Constant match tiers, highest precedence first.
const (
	TierNone      Tier = ""
	TierExact     Tier = "exact"
	TierWordOrder Tier = "word-order"
	TierTypo      Tier = "typo"
)

// RelatedLocation is a secondary location attached to a violation.
type RelatedLocation struct {
	Location Location `json:"location"`
	Snippet  string   `json:"snippet,omitempty"`
}

// Violation is the record handed to reporters.
type Violation struct {
	Category Category          `json:"rule_category"`
	Tier     Tier              `json:"tier,omitempty"`
	Primary  Location          `json:"primary_location"`
	Snippet  string            `json:"snippet,omitempty"`
	Message  string            `json:"message"`
	Related  []RelatedLocation `json:"related_locations"`
}

// SortViolations orders violations by primary location, then category.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i].Primary, vs[j].Primary
		if a != b {
			return a.Less(b)
		}
		return vs[i].Category < vs[j].Category
	})
}

// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package constants finds named-constant declarations and groups the ones
// that look like the same value declared more than once.
package constants

import (
	"strings"
	"unicode"

	"github.com/davetashner/dupscan/internal/model"
)

// maxLiteral bounds the literal display text.
const maxLiteral = 60

// Extract returns the top-level bindings of file that follow the named
// constant convention. Front-ends only report top-level bindings, so nesting
// is already excluded.
func Extract(file *model.SourceFile) []model.ConstantDeclaration {
	if file == nil {
		return nil
	}
	var out []model.ConstantDeclaration
	for _, b := range file.Bindings {
		if !IsConstantName(b.Name) {
			continue
		}
		out = append(out, model.ConstantDeclaration{
			Name:           b.Name,
			NormalizedName: Normalize(b.Name),
			FilePath:       file.Path,
			Line:           b.Line,
			Literal:        displayLiteral(b.Value),
			Language:       file.Language,
		})
	}
	return out
}

// IsConstantName reports whether name uses the all-uppercase convention:
// upper-case letters, digits and underscores, at least one letter, and no
// leading underscore (the private marker).
func IsConstantName(name string) bool {
	if name == "" || name[0] == '_' || name[0] == '$' || name[0] == '#' {
		return false
	}
	letters := 0
	for _, r := range name {
		switch {
		case r == '_':
		case unicode.IsDigit(r):
		case unicode.IsUpper(r):
			letters++
		default:
			return false
		}
	}
	return letters > 0
}

// Normalize case-folds name.
func Normalize(name string) string { return strings.ToLower(name) }

func displayLiteral(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if r := []rune(v); len(r) > maxLiteral {
		return string(r[:maxLiteral-3]) + "..."
	}
	return v
}

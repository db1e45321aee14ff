// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package lang provides the canonical tokenizer capability: one front-end per
// source language, each turning file contents into the same normalized token
// representation consumed by the block extractor and fingerprinting.
package lang

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

var (
	// ErrUnsupported is returned for files no registered front-end handles.
	ErrUnsupported = errors.New("unsupported language")

	// ErrSyntax is returned when a file does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
)

// Tokenizer turns one file's contents into a canonical token stream plus its
// top-level bindings.
type Tokenizer interface {
	// Language returns the language tag attached to every file it produces.
	Language() model.Language

	// Extensions lists the lower-case file extensions (with dot) it handles.
	Extensions() []string

	// Tokenize parses src. Malformed input yields an error wrapping ErrSyntax.
	Tokenize(ctx context.Context, path string, src []byte) (*model.SourceFile, error)
}

// Registry maps file extensions to tokenizers. It is built explicitly at the
// call site; there is no package-level registration.
type Registry struct {
	byExt map[string]Tokenizer
}

// NewRegistry returns a registry over the given tokenizers. Later tokenizers
// win when two claim the same extension.
func NewRegistry(tokenizers ...Tokenizer) *Registry {
	r := &Registry{byExt: make(map[string]Tokenizer)}
	for _, t := range tokenizers {
		for _, ext := range t.Extensions() {
			r.byExt[strings.ToLower(ext)] = t
		}
	}
	return r
}

// DefaultRegistry returns a registry with every built-in front-end.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPython(), NewGo(), NewJavaScript(), NewTypeScript(), NewTSX())
}

// ForPath returns the tokenizer responsible for path, if any.
func (r *Registry) ForPath(path string) (Tokenizer, bool) {
	t, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return t, ok
}

// Supports reports whether path has a registered front-end.
func (r *Registry) Supports(path string) bool {
	_, ok := r.ForPath(path)
	return ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Tokenize dispatches to the tokenizer registered for path.
func (r *Registry) Tokenize(ctx context.Context, path string, src []byte) (*model.SourceFile, error) {
	t, ok := r.ForPath(path)
	if !ok {
		return nil, ErrUnsupported
	}
	return t.Tokenize(ctx, path, src)
}

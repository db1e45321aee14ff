// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package lang

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/davetashner/dupscan/internal/model"
)

// maxValueLen caps the literal display text captured for bindings.
const maxValueLen = 60

// treeTokenizer is a Tokenizer backed by a tree-sitter grammar. Language
// files configure which node types are comments, identifiers and atomic
// literals, and how top-level bindings are found.
type treeTokenizer struct {
	lang     model.Language
	exts     []string
	grammar  *sitter.Language
	comments map[string]bool
	idents   map[string]bool
	atomic   map[string]bool
	bindings func(root *sitter.Node, src []byte) []model.Binding
}

func (t *treeTokenizer) Language() model.Language { return t.lang }

func (t *treeTokenizer) Extensions() []string { return t.exts }

// Tokenize parses src and walks the tree's leaves in source order.
func (t *treeTokenizer) Tokenize(ctx context.Context, path string, src []byte) (*model.SourceFile, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(t.grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w", path, ErrSyntax)
	}

	file := &model.SourceFile{
		Path:     path,
		Language: t.lang,
		Lines:    bytes.Count(src, []byte{'\n'}) + 1,
	}
	t.collect(root, src, &file.Tokens)
	if t.bindings != nil {
		file.Bindings = t.bindings(root, src)
	}
	return file, nil
}

// collect appends the canonical tokens under n. Comment subtrees are
// dropped; atomic literal nodes become a single token.
func (t *treeTokenizer) collect(n *sitter.Node, src []byte, out *[]model.Token) {
	typ := n.Type()
	if t.comments[typ] {
		return
	}
	if t.atomic[typ] || n.ChildCount() == 0 {
		text := n.Content(src)
		if strings.TrimSpace(text) == "" {
			return
		}
		*out = append(*out, model.Token{
			Text: text,
			Kind: t.kind(n, typ, text),
			Line: int(n.StartPoint().Row) + 1,
		})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		t.collect(n.Child(i), src, out)
	}
}

func (t *treeTokenizer) kind(n *sitter.Node, typ, text string) model.TokenKind {
	switch {
	case t.idents[typ]:
		return model.KindIdent
	case t.atomic[typ]:
		return model.KindLiteral
	case !n.IsNamed():
		if isWord(text) {
			return model.KindKeyword
		}
		return model.KindPunct
	default:
		return model.KindLiteral
	}
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

// displayValue collapses whitespace in a literal and truncates it.
func displayValue(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	v := strings.Join(strings.Fields(n.Content(src)), " ")
	if r := []rune(v); len(r) > maxValueLen {
		v = string(r[:maxValueLen-3]) + "..."
	}
	return v
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

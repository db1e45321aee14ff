// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/davetashner/dupscan/internal/model"
)

var (
	jsIdents = set("identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "private_property_identifier",
		"statement_identifier", "type_identifier")
	jsAtomic = set("string", "template_string", "number", "regex")
)

// NewJavaScript returns the JavaScript front-end (JSX included).
func NewJavaScript() Tokenizer {
	return &treeTokenizer{
		lang:     model.LangJavaScript,
		exts:     []string{".js", ".jsx", ".mjs", ".cjs"},
		grammar:  javascript.GetLanguage(),
		comments: set("comment"),
		idents:   jsIdents,
		atomic:   jsAtomic,
		bindings: ecmaBindings,
	}
}

// NewTypeScript returns the TypeScript front-end.
func NewTypeScript() Tokenizer {
	return &treeTokenizer{
		lang:     model.LangTypeScript,
		exts:     []string{".ts", ".mts", ".cts"},
		grammar:  typescript.GetLanguage(),
		comments: set("comment"),
		idents:   jsIdents,
		atomic:   jsAtomic,
		bindings: ecmaBindings,
	}
}

// NewTSX returns the TypeScript front-end for .tsx files.
func NewTSX() Tokenizer {
	return &treeTokenizer{
		lang:     model.LangTypeScript,
		exts:     []string{".tsx"},
		grammar:  tsx.GetLanguage(),
		comments: set("comment"),
		idents:   jsIdents,
		atomic:   jsAtomic,
		bindings: ecmaBindings,
	}
}

// ecmaBindings returns top-level `const` declarators, exported or not.
func ecmaBindings(root *sitter.Node, src []byte) []model.Binding {
	var out []model.Binding
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() == "export_statement" {
			stmt = stmt.ChildByFieldName("declaration")
			if stmt == nil {
				continue
			}
		}
		if stmt.Type() != "lexical_declaration" || stmt.ChildCount() == 0 || stmt.Child(0).Type() != "const" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			decl := stmt.NamedChild(j)
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := decl.ChildByFieldName("name")
			if name == nil || name.Type() != "identifier" {
				continue
			}
			out = append(out, model.Binding{
				Name:  name.Content(src),
				Line:  int(name.StartPoint().Row) + 1,
				Value: displayValue(decl.ChildByFieldName("value"), src),
			})
		}
	}
	return out
}

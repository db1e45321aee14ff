// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/davetashner/dupscan/internal/model"
)

// NewGo returns the Go front-end.
func NewGo() Tokenizer {
	return &treeTokenizer{
		lang:     model.LangGo,
		exts:     []string{".go"},
		grammar:  golang.GetLanguage(),
		comments: set("comment"),
		idents:   set("identifier", "field_identifier", "package_identifier", "type_identifier"),
		atomic: set("interpreted_string_literal", "raw_string_literal", "rune_literal",
			"int_literal", "float_literal", "imaginary_literal"),
		bindings: goBindings,
	}
}

// goBindings returns the names declared by package-level const declarations,
// including grouped `const ( ... )` blocks and multi-name specs.
func goBindings(root *sitter.Node, src []byte) []model.Binding {
	var out []model.Binding
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "const_declaration" {
			continue
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			spec := decl.NamedChild(j)
			if spec.Type() != "const_spec" {
				continue
			}
			values := spec.ChildByFieldName("value")
			nameIdx := 0
			for k := 0; k < int(spec.NamedChildCount()); k++ {
				child := spec.NamedChild(k)
				if child.Type() != "identifier" {
					continue
				}
				var value *sitter.Node
				if values != nil && nameIdx < int(values.NamedChildCount()) {
					value = values.NamedChild(nameIdx)
				}
				out = append(out, model.Binding{
					Name:  child.Content(src),
					Line:  int(child.StartPoint().Row) + 1,
					Value: displayValue(value, src),
				})
				nameIdx++
			}
		}
	}
	return out
}

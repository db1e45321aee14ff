// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/davetashner/dupscan/internal/model"
)

// NewPython returns the Python front-end.
func NewPython() Tokenizer {
	return &treeTokenizer{
		lang:     model.LangPython,
		exts:     []string{".py", ".pyi", ".pyw"},
		grammar:  python.GetLanguage(),
		comments: set("comment"),
		idents:   set("identifier"),
		atomic:   set("string", "concatenated_string", "integer", "float"),
		bindings: pythonBindings,
	}
}

// pythonBindings returns module-level `NAME = value` and `NAME: T = value`
// assignments. Assignments nested in functions, classes or control flow are
// not direct children of the module and are skipped.
func pythonBindings(root *sitter.Node, src []byte) []model.Binding {
	var out []model.Binding
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			assign := stmt.NamedChild(j)
			if assign.Type() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				continue
			}
			right := assign.ChildByFieldName("right")
			for right != nil && right.Type() == "assignment" {
				right = right.ChildByFieldName("right")
			}
			out = append(out, model.Binding{
				Name:  left.Content(src),
				Line:  int(left.StartPoint().Row) + 1,
				Value: displayValue(right, src),
			})
		}
	}
	return out
}

// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package blocks

import (
	"strings"

	"github.com/davetashner/dupscan/internal/model"
)

// Line is one canonical line: the tokens that start on a single source line.
type Line struct {
	Tokens []model.Token
	Text   string // tokens joined by a single space
	Start  int    // 1-based source line
	End    int    // last source line covered (multi-line literals extend it)
	Depth  int    // open ( and [ count before the first token
	Stmt   int    // index of the statement this line belongs to
}

// statement is a run of consecutive lines joined by open brackets.
type statement struct {
	first int // index of the first line
	head  string
}

// canonicalLines groups a token stream into canonical lines. Lines that held
// only comments or whitespace never appear because no token starts on them.
func canonicalLines(tokens []model.Token) ([]Line, []statement) {
	var lines []Line
	for i := 0; i < len(tokens); {
		j := i
		for j < len(tokens) && tokens[j].Line == tokens[i].Line {
			j++
		}
		toks := tokens[i:j]
		texts := make([]string, len(toks))
		end := toks[0].Line
		for k, tok := range toks {
			texts[k] = tok.Text
			if e := tok.Line + strings.Count(tok.Text, "\n"); e > end {
				end = e
			}
		}
		lines = append(lines, Line{
			Tokens: toks,
			Text:   strings.Join(texts, " "),
			Start:  toks[0].Line,
			End:    end,
		})
		i = j
	}

	var stmts []statement
	depth := 0
	for i := range lines {
		lines[i].Depth = depth
		if depth == 0 {
			stmts = append(stmts, statement{first: i, head: lines[i].Text})
		}
		lines[i].Stmt = len(stmts) - 1
		for _, tok := range lines[i].Tokens {
			if tok.Kind != model.KindPunct {
				continue
			}
			switch tok.Text {
			case "(", "[":
				depth++
			case ")", "]":
				if depth > 0 {
					depth--
				}
			}
		}
	}
	return lines, stmts
}

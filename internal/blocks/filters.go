// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package blocks

import "regexp"

// Filters toggles the structural false-positive filters applied to each
// candidate window before it is fingerprinted.
type Filters struct {
	ImportGroup      bool
	KeywordArgument  bool
	LoggerCall       bool
	ExceptionReraise bool
}

// AllFilters enables every filter.
func AllFilters() Filters {
	return Filters{ImportGroup: true, KeywordArgument: true, LoggerCall: true, ExceptionReraise: true}
}

// Patterns run against canonical text, where tokens are separated by one space.
var (
	importRe = regexp.MustCompile(`^(?:import\b|from \S+ import\b|#include\b|#import\b|using\b|use\b|require \(|(?:const|let|var) \S+ = require \()`)

	kwargRe   = regexp.MustCompile(`^(?:\*\* )?[A-Za-z_]\w*(?: = [^=].*?)?(?: ,)?$`)
	closingRe = regexp.MustCompile(`^[)\]}]+(?: [)\]},;]+)*$`)

	loggerRe = regexp.MustCompile(`^(?:(?:self|this|cls) \. )?(?:logger|logging|log|LOG|LOGGER|_logger|_log|console|slog|klog|zap) (?:\. [A-Za-z_]\w* )+\(`)

	handlerRe = regexp.MustCompile(`^(?:\} )?(?:except\b.*:$|catch\b|finally\b|rescue\b|if err != nil \{$)`)
	raiseRe   = regexp.MustCompile(`^(?:raise\b|throw\b|panic \(|return (?:.* , )?err$)`)
	braceRe   = regexp.MustCompile(`^[{}]+(?: [{};]+)*$`)
)

// discard reports which filter, if any, rejects the window lines[from:to].
func (f Filters) discard(lines []Line, stmts []statement, from, to int) (string, bool) {
	window := lines[from:to]
	heads := windowStatements(window, stmts)

	if f.ImportGroup && allMatch(heads, importRe) {
		return "import-group", true
	}
	if f.KeywordArgument && isKeywordArgumentFragment(window) {
		return "keyword-argument", true
	}
	if f.LoggerCall && allMatch(heads, loggerRe) {
		return "logger-call", true
	}
	if f.ExceptionReraise && isReraise(heads) {
		return "exception-reraise", true
	}
	return "", false
}

// windowStatements returns the head text of every statement touched by the
// window. A statement cut by the window start is judged by its real head.
func windowStatements(window []Line, stmts []statement) []string {
	var heads []string
	last := -1
	for _, l := range window {
		if l.Stmt != last {
			heads = append(heads, stmts[l.Stmt].head)
			last = l.Stmt
		}
	}
	return heads
}

func allMatch(texts []string, re *regexp.Regexp) bool {
	if len(texts) == 0 {
		return false
	}
	for _, t := range texts {
		if !re.MatchString(t) {
			return false
		}
	}
	return true
}

// isKeywordArgumentFragment is true when every line sits inside an open call
// and is either a `name=value,` argument or closing brackets.
func isKeywordArgumentFragment(window []Line) bool {
	sawArg := false
	for _, l := range window {
		switch {
		case closingRe.MatchString(l.Text):
		case l.Depth > 0 && kwargRe.MatchString(l.Text):
			sawArg = true
		default:
			return false
		}
	}
	return sawArg
}

// isReraise matches catch-log-rethrow scaffolding: handler headers, logging
// calls, braces and at least one raise/throw.
func isReraise(heads []string) bool {
	sawRaise := false
	for _, h := range heads {
		switch {
		case raiseRe.MatchString(h):
			sawRaise = true
		case handlerRe.MatchString(h), loggerRe.MatchString(h), braceRe.MatchString(h):
		default:
			return false
		}
	}
	return sawRaise
}

// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package constants

import (
	"sort"
	"strings"
	"unicode"
)

// SplitWords breaks an identifier into lower-case component words on
// underscores, hyphens and case boundaries. Digit runs are separate words.
//
//	SplitWords("API_TIMEOUT")   // [api timeout]
//	SplitWords("httpTimeoutMs") // [http timeout ms]
//	SplitWords("HTTPServer2")   // [http server 2]
func SplitWords(name string) []string {
	rs := []rune(name)
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		if r == '_' || r == '-' {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := rs[i-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]):
				// "HTTPServer": the S starts a new word.
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// WordSetKey returns the sorted, de-duplicated word set of name joined by
// spaces, and the number of distinct words.
func WordSetKey(name string) (string, int) {
	words := SplitWords(name)
	seen := make(map[string]bool, len(words))
	uniq := words[:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			uniq = append(uniq, w)
		}
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " "), len(uniq)
}

// multiWord reports whether name has at least two component words.
func multiWord(name string) bool {
	return len(SplitWords(name)) >= 2
}

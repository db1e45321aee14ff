// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"maps"

	"github.com/davetashner/dupscan/internal/blocks"
	"github.com/davetashner/dupscan/internal/model"
)

// Stats summarizes a run.
type Stats struct {
	FilesScanned int                    `json:"files_scanned"`
	FilesSkipped int                    `json:"files_skipped"`
	SkipReasons  map[string]int         `json:"skip_reasons,omitempty"`
	ByLanguage   map[model.Language]int `json:"files_by_language,omitempty"`

	Windows        int            `json:"windows"`
	WindowsSmall   int            `json:"windows_below_threshold"`
	WindowsDropped map[string]int `json:"windows_filtered,omitempty"`
	Directives     int            `json:"suppression_directives"`

	Blocks     int                    `json:"blocks_indexed"`
	Constants  int                    `json:"constants_indexed"`
	Groups     map[model.Category]int `json:"groups,omitempty"`
	Violations int                    `json:"violations"`
}

func newStats() Stats {
	return Stats{
		SkipReasons:    make(map[string]int),
		ByLanguage:     make(map[model.Language]int),
		WindowsDropped: make(map[string]int),
		Groups:         make(map[model.Category]int),
	}
}

func (s *Stats) addFile(l model.Language, b blocks.Stats, directives int) {
	s.FilesScanned++
	s.ByLanguage[l]++
	s.Windows += b.Windows
	s.WindowsSmall += b.TooSmall
	for k, v := range b.Filtered {
		s.WindowsDropped[k] += v
	}
	s.Directives += directives
}

func (s Stats) clone() Stats {
	s.SkipReasons = maps.Clone(s.SkipReasons)
	s.ByLanguage = maps.Clone(s.ByLanguage)
	s.WindowsDropped = maps.Clone(s.WindowsDropped)
	s.Groups = maps.Clone(s.Groups)
	return s
}

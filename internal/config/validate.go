package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davetashner/dupscan/internal/blocks"
	"github.com/davetashner/dupscan/internal/model"
	"github.com/davetashner/dupscan/internal/store"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.MinDuplicateLines < 1 {
		errs = append(errs, fmt.Sprintf("min_duplicate_lines: must be positive, got %d", cfg.MinDuplicateLines))
	}
	if cfg.MinDuplicateTokens < 1 {
		errs = append(errs, fmt.Sprintf("min_duplicate_tokens: must be positive, got %d", cfg.MinDuplicateTokens))
	}
	if cfg.MinOccurrences < 2 {
		errs = append(errs, fmt.Sprintf("min_occurrences: must be at least 2, got %d", cfg.MinOccurrences))
	}
	if cfg.MinConstantOccurrences < 2 {
		errs = append(errs, fmt.Sprintf("min_constant_occurrences: must be at least 2, got %d", cfg.MinConstantOccurrences))
	}
	if _, err := store.ParseMode(cfg.StorageMode); err != nil {
		errs = append(errs, fmt.Sprintf("storage_mode: %v", err))
	}
	if _, err := blocks.ParseAlgorithm(cfg.HashAlgorithm); err != nil {
		errs = append(errs, fmt.Sprintf("hash_algorithm: %v", err))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers: must be non-negative, got %d", cfg.Workers))
	}
	if cfg.DirectiveSpanLines < 1 {
		errs = append(errs, fmt.Sprintf("directive_span_lines: must be positive, got %d", cfg.DirectiveSpanLines))
	}
	for i, p := range cfg.IgnorePatterns {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("ignore_patterns[%d]: must not be empty", i))
		}
	}

	names := make([]string, 0, len(cfg.Languages))
	for name := range cfg.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lc := cfg.Languages[name]
		if !model.Language(name).Known() {
			errs = append(errs, fmt.Sprintf("languages.%s: unknown language", name))
		}
		if lc.MinOccurrences != 0 && lc.MinOccurrences < 2 {
			errs = append(errs, fmt.Sprintf("languages.%s.min_occurrences: must be at least 2, got %d", name, lc.MinOccurrences))
		}
		if lc.MinConstantOccurrences != 0 && lc.MinConstantOccurrences < 2 {
			errs = append(errs, fmt.Sprintf("languages.%s.min_constant_occurrences: must be at least 2, got %d", name, lc.MinConstantOccurrences))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

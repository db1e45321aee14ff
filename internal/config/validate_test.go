package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"min occurrences below two", func(c *Config) { c.MinOccurrences = 1 }, "min_occurrences: must be at least 2, got 1"},
		{"min constant occurrences", func(c *Config) { c.MinConstantOccurrences = 0 }, "min_constant_occurrences"},
		{"min lines", func(c *Config) { c.MinDuplicateLines = 0 }, "min_duplicate_lines"},
		{"min tokens", func(c *Config) { c.MinDuplicateTokens = -4 }, "min_duplicate_tokens"},
		{"storage mode", func(c *Config) { c.StorageMode = "redis" }, "storage_mode"},
		{"hash algorithm", func(c *Config) { c.HashAlgorithm = "md5" }, "hash_algorithm"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"directive span", func(c *Config) { c.DirectiveSpanLines = 0 }, "directive_span_lines"},
		{"empty ignore pattern", func(c *Config) { c.IgnorePatterns = []string{"ok/**", " "} }, "ignore_patterns[1]"},
		{"unknown language", func(c *Config) { c.Languages = map[string]LanguageConfig{"cobol": {}} }, "languages.cobol: unknown language"},
		{"language threshold", func(c *Config) {
			c.Languages = map[string]LanguageConfig{"go": {MinOccurrences: 1}}
		}, "languages.go.min_occurrences"},
		{"language constant threshold", func(c *Config) {
			c.Languages = map[string]LanguageConfig{"python": {MinConstantOccurrences: 1}}
		}, "languages.python.min_constant_occurrences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.MinOccurrences = 0
	cfg.StorageMode = "disk"
	cfg.Workers = -2

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "config validation failed:")
	assert.Contains(t, msg, "min_occurrences")
	assert.Contains(t, msg, "storage_mode")
	assert.Contains(t, msg, "workers")
}

func TestValidate_EmptyStorageAndHashUseDefaults(t *testing.T) {
	cfg := Default()
	cfg.StorageMode = ""
	cfg.HashAlgorithm = ""
	assert.NoError(t, Validate(cfg))
}

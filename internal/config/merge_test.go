package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_CLIOverridesFile(t *testing.T) {
	fileCfg := Default()
	fileCfg.MinDuplicateLines = 8
	fileCfg.StorageMode = "tempfile"

	result := Merge(fileCfg, Overrides{MinDuplicateLines: 4, StorageMode: "memory", Workers: 2})
	assert.Equal(t, 4, result.MinDuplicateLines)
	assert.Equal(t, "memory", result.StorageMode)
	assert.Equal(t, 2, result.Workers)
}

func TestMerge_FileFillsInUnsetFlags(t *testing.T) {
	fileCfg := Default()
	fileCfg.MinDuplicateTokens = 25
	fileCfg.MinOccurrences = 3
	fileCfg.HashAlgorithm = "blake3"

	result := Merge(fileCfg, Overrides{})
	assert.Equal(t, 25, result.MinDuplicateTokens)
	assert.Equal(t, 3, result.MinOccurrences)
	assert.Equal(t, "blake3", result.HashAlgorithm)
	assert.True(t, result.DetectDuplicateConstants)
}

func TestMerge_BooleanFlags(t *testing.T) {
	result := Merge(Default(), Overrides{NoConstants: true, VerifySnippets: true})
	assert.False(t, result.DetectDuplicateConstants)
	assert.True(t, result.VerifySnippets)
}

func TestMerge_IgnorePatternsAccumulate(t *testing.T) {
	fileCfg := Default()
	fileCfg.IgnorePatterns = []string{"vendor/**"}

	result := Merge(fileCfg, Overrides{IgnorePatterns: []string{"gen/**"}})
	assert.Equal(t, []string{"vendor/**", "gen/**"}, result.IgnorePatterns)
	assert.Equal(t, []string{"vendor/**"}, fileCfg.IgnorePatterns, "file config is not modified")
}

func TestMerge_LanguagesCopied(t *testing.T) {
	fileCfg := Default()
	fileCfg.Languages = map[string]LanguageConfig{"go": {MinOccurrences: 4}}

	result := Merge(fileCfg, Overrides{})
	result.Languages["python"] = LanguageConfig{MinOccurrences: 3}
	assert.NotContains(t, fileCfg.Languages, "python")
	assert.Equal(t, 4, result.Languages["go"].MinOccurrences)
}

// Package config handles .dupscan.yaml and .dupscan.toml configuration files.
package config

import "github.com/davetashner/dupscan/internal/model"

// FileNames are the config file names looked up in a scan root, in order.
var FileNames = []string{".dupscan.yaml", ".dupscan.yml", ".dupscan.toml"}

// Config is the typed engine configuration. Zero values are not meaningful;
// start from Default.
type Config struct {
	MinDuplicateLines  int `yaml:"min_duplicate_lines" toml:"min_duplicate_lines"`
	MinDuplicateTokens int `yaml:"min_duplicate_tokens" toml:"min_duplicate_tokens"`
	MinOccurrences     int `yaml:"min_occurrences" toml:"min_occurrences"`

	// Languages holds per-language overrides keyed by language name.
	Languages map[string]LanguageConfig `yaml:"languages,omitempty" toml:"languages,omitempty"`

	StorageMode string `yaml:"storage_mode" toml:"storage_mode"`
	TempDir     string `yaml:"temp_dir,omitempty" toml:"temp_dir,omitempty"`

	Filters FilterConfig `yaml:"filters" toml:"filters"`

	DetectDuplicateConstants bool `yaml:"detect_duplicate_constants" toml:"detect_duplicate_constants"`
	MinConstantOccurrences   int  `yaml:"min_constant_occurrences" toml:"min_constant_occurrences"`
	WordSetMatch             bool `yaml:"word_set_match" toml:"word_set_match"`
	EditDistanceMatch        bool `yaml:"edit_distance_match" toml:"edit_distance_match"`

	IgnorePatterns []string `yaml:"ignore_patterns" toml:"ignore_patterns"`

	VerifySnippets     bool   `yaml:"verify_snippets" toml:"verify_snippets"`
	HashAlgorithm      string `yaml:"hash_algorithm" toml:"hash_algorithm"`
	Workers            int    `yaml:"workers" toml:"workers"`
	DirectiveSpanLines int    `yaml:"directive_span_lines" toml:"directive_span_lines"`
}

// LanguageConfig overrides global settings for one language. Zero and nil
// fields fall through.
type LanguageConfig struct {
	MinOccurrences         int   `yaml:"min_occurrences,omitempty" toml:"min_occurrences,omitempty"`
	MinConstantOccurrences int   `yaml:"min_constant_occurrences,omitempty" toml:"min_constant_occurrences,omitempty"`
	WordSetMatch           *bool `yaml:"word_set_match,omitempty" toml:"word_set_match,omitempty"`
	EditDistanceMatch      *bool `yaml:"edit_distance_match,omitempty" toml:"edit_distance_match,omitempty"`
}

// FilterConfig toggles the structural block filters.
type FilterConfig struct {
	ImportGroup      bool `yaml:"import_group" toml:"import_group"`
	KeywordArgument  bool `yaml:"keyword_argument" toml:"keyword_argument"`
	LoggerCall       bool `yaml:"logger_call" toml:"logger_call"`
	ExceptionReraise bool `yaml:"exception_reraise" toml:"exception_reraise"`
}

// languageMinOccurrences holds the built-in stricter block thresholds. Go code
// repeats short error-handling sequences idiomatically.
var languageMinOccurrences = map[model.Language]int{
	model.LangGo: 3,
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		MinDuplicateLines:        6,
		MinDuplicateTokens:       40,
		MinOccurrences:           2,
		StorageMode:              "memory",
		Filters:                  FilterConfig{ImportGroup: true, KeywordArgument: true, LoggerCall: true, ExceptionReraise: true},
		DetectDuplicateConstants: true,
		MinConstantOccurrences:   2,
		WordSetMatch:             true,
		EditDistanceMatch:        true,
		IgnorePatterns:           []string{},
		HashAlgorithm:            "xxhash",
		DirectiveSpanLines:       10,
	}
}

// BlockMinOccurrences returns the duplicate-code threshold for lang: an
// explicit per-language override, else a built-in language default, else the
// global value. A built-in default never lowers the global value.
func (c *Config) BlockMinOccurrences(lang model.Language) int {
	if lc, ok := c.Languages[string(lang)]; ok && lc.MinOccurrences > 0 {
		return lc.MinOccurrences
	}
	if n, ok := languageMinOccurrences[lang]; ok && n > c.MinOccurrences {
		return n
	}
	return c.MinOccurrences
}

// ConstantRules returns the constant-matching policy for lang.
func (c *Config) ConstantRules(lang model.Language) (minOccurrences int, wordSet, editDistance bool) {
	minOccurrences, wordSet, editDistance = c.MinConstantOccurrences, c.WordSetMatch, c.EditDistanceMatch
	lc, ok := c.Languages[string(lang)]
	if !ok {
		return
	}
	if lc.MinConstantOccurrences > 0 {
		minOccurrences = lc.MinConstantOccurrences
	}
	if lc.WordSetMatch != nil {
		wordSet = *lc.WordSetMatch
	}
	if lc.EditDistanceMatch != nil {
		editDistance = *lc.EditDistanceMatch
	}
	return
}

package config

// Overrides carries the configuration values given on the command line. Zero
// values mean "not set".
type Overrides struct {
	MinDuplicateLines  int
	MinDuplicateTokens int
	MinOccurrences     int
	StorageMode        string
	HashAlgorithm      string
	Workers            int
	NoConstants        bool
	VerifySnippets     bool
	IgnorePatterns     []string
}

// Merge applies CLI overrides on top of the file config and returns the
// result. fileCfg is not modified.
func Merge(fileCfg *Config, cli Overrides) *Config {
	result := *fileCfg
	result.Languages = make(map[string]LanguageConfig, len(fileCfg.Languages))
	for k, v := range fileCfg.Languages {
		result.Languages[k] = v
	}

	// Scalars: CLI wins if set.
	if cli.MinDuplicateLines != 0 {
		result.MinDuplicateLines = cli.MinDuplicateLines
	}
	if cli.MinDuplicateTokens != 0 {
		result.MinDuplicateTokens = cli.MinDuplicateTokens
	}
	if cli.MinOccurrences != 0 {
		result.MinOccurrences = cli.MinOccurrences
	}
	if cli.StorageMode != "" {
		result.StorageMode = cli.StorageMode
	}
	if cli.HashAlgorithm != "" {
		result.HashAlgorithm = cli.HashAlgorithm
	}
	if cli.Workers != 0 {
		result.Workers = cli.Workers
	}

	// Booleans: CLI can only switch these one way.
	if cli.NoConstants {
		result.DetectDuplicateConstants = false
	}
	if cli.VerifySnippets {
		result.VerifySnippets = true
	}

	// Ignore patterns accumulate.
	if len(cli.IgnorePatterns) > 0 {
		result.IgnorePatterns = append(append([]string{}, fileCfg.IgnorePatterns...), cli.IgnorePatterns...)
	}
	return &result
}

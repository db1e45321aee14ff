// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/davetashner/dupscan/internal/config"
	"github.com/davetashner/dupscan/internal/discover"
	"github.com/davetashner/dupscan/internal/engine"
	"github.com/davetashner/dupscan/internal/lang"
	dupscanlog "github.com/davetashner/dupscan/internal/log"
	"github.com/davetashner/dupscan/internal/model"
	"github.com/davetashner/dupscan/internal/output"
	"github.com/davetashner/dupscan/internal/progress"
	"github.com/davetashner/dupscan/internal/store"
)

// Scan-specific flag values.
var (
	scanFormat         string
	scanOutput         string
	scanConfigPath     string
	scanMinLines       int
	scanMinTokens      int
	scanMinOccurrences int
	scanStorage        string
	scanHash           string
	scanWorkers        int
	scanNoConstants    bool
	scanVerifySnippets bool
	scanTrackedOnly    bool
	scanNoGitignore    bool
	scanExclude        []string
	scanProgress       bool
	scanExitZero       bool
)

// scanCmd is the subcommand for scanning a directory.
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory for duplicated code and constants",
	Long: `Scan a directory tree and report duplicated code blocks and duplicated or
near-identical constants.

Configuration is read from .dupscan.yaml, .dupscan.yml or .dupscan.toml in
the scan root, on top of the global config. Flags override file values.

Exit status is 0 when nothing is found, 1 when violations are reported,
2 for invalid arguments or configuration and 3 when the scan itself fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "text", "output format (json, markdown, sarif, text)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output file path (default: stdout)")
	scanCmd.Flags().StringVar(&scanConfigPath, "config", "", "config file (default: .dupscan.yaml in the scan root)")
	scanCmd.Flags().IntVar(&scanMinLines, "min-lines", 0, "minimum lines per duplicated block")
	scanCmd.Flags().IntVar(&scanMinTokens, "min-tokens", 0, "minimum tokens per duplicated block")
	scanCmd.Flags().IntVar(&scanMinOccurrences, "min-occurrences", 0, "minimum occurrences before a block is reported")
	scanCmd.Flags().StringVar(&scanStorage, "storage", "", "block store (memory, tempfile)")
	scanCmd.Flags().StringVar(&scanHash, "hash", "", "block fingerprint (xxhash, blake3)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "parallel collection workers (default: number of CPUs)")
	scanCmd.Flags().BoolVar(&scanNoConstants, "no-constants", false, "skip duplicate-constant detection")
	scanCmd.Flags().BoolVar(&scanVerifySnippets, "verify-snippets", false, "confirm fingerprint matches by comparing block text")
	scanCmd.Flags().BoolVar(&scanTrackedOnly, "tracked-only", false, "scan only files in the git index")
	scanCmd.Flags().BoolVar(&scanNoGitignore, "no-gitignore", false, "do not honour .gitignore files")
	scanCmd.Flags().StringSliceVarP(&scanExclude, "exclude", "e", nil, "gitignore-style patterns to exclude (repeatable)")
	scanCmd.Flags().BoolVar(&scanProgress, "progress", false, "show a progress bar on stderr")
	scanCmd.Flags().BoolVar(&scanExitZero, "exit-zero", false, "exit 0 even when violations are found")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	ctx := cmd.Context()

	cfg, err := loadScanConfig(root)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(scanFormat)
	if err != nil {
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	}

	runID := uuid.NewString()
	dupscanlog.WithRun(runID)
	start := time.Now()

	registry := lang.DefaultRegistry()
	files, err := discover.Files(ctx, root, discover.Options{
		Supports:    registry.Supports,
		Exclude:     cfg.IgnorePatterns,
		TrackedOnly: scanTrackedOnly,
		NoGitignore: scanNoGitignore,
	})
	if err != nil {
		return discoveryError(err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return exitError(ExitInfrastructure, "dupscan: %v", err)
	}
	slog.Info("scanning", "root", absRoot, "files", len(files), "storage", cfg.StorageMode)

	violations, stats, err := collect(ctx, cfg, absRoot, registry, files)
	if err != nil {
		return scanError(err)
	}

	report := output.Report{
		RunID:       runID,
		Root:        absRoot,
		Version:     Version,
		GeneratedAt: start,
		Violations:  violations,
		Stats:       stats,
	}
	if err := writeReport(cmd, formatter, report); err != nil {
		return err
	}
	slog.Info("scan complete", "files", stats.FilesScanned, "skipped", stats.FilesSkipped,
		"violations", len(violations), "duration", time.Since(start).Round(time.Millisecond))

	if len(violations) > 0 && !scanExitZero {
		return exitError(ExitViolations, "")
	}
	return nil
}

// loadScanConfig reads the file config for root (or --config) and applies
// the command-line overrides.
func loadScanConfig(root string) (*config.Config, error) {
	var (
		fileCfg *config.Config
		path    string
		err     error
	)
	if scanConfigPath != "" {
		path = scanConfigPath
		fileCfg, err = config.LoadFile(path)
	} else {
		fileCfg, path, err = config.Load(root)
	}
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	cfg := config.Merge(fileCfg, config.Overrides{
		MinDuplicateLines:  scanMinLines,
		MinDuplicateTokens: scanMinTokens,
		MinOccurrences:     scanMinOccurrences,
		StorageMode:        scanStorage,
		HashAlgorithm:      scanHash,
		Workers:            scanWorkers,
		NoConstants:        scanNoConstants,
		VerifySnippets:     scanVerifySnippets,
		IgnorePatterns:     scanExclude,
	})
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	return cfg, nil
}

// collect runs one engine pass over files.
func collect(ctx context.Context, cfg *config.Config, root string, registry *lang.Registry, files []string) ([]model.Violation, engine.Stats, error) {
	eng, err := engine.New(cfg, engine.Options{Root: root, Registry: registry})
	if err != nil {
		return nil, engine.Stats{}, err
	}
	defer eng.Close() //nolint:errcheck // Finalize already released the store on success

	var tracker *progress.Tracker
	if scanProgress {
		tracker = progress.New("collecting", len(files))
	}
	if err := eng.Run(ctx, files, tracker.Done); err != nil {
		tracker.Fail(err)
		return nil, eng.Stats(), err
	}
	tracker.Finish()

	violations, err := eng.Finalize(ctx)
	if err != nil {
		return nil, eng.Stats(), err
	}
	return violations, eng.Stats(), nil
}

func writeReport(cmd *cobra.Command, f output.Formatter, r output.Report) error {
	var w io.Writer = cmd.OutOrStdout()
	if scanOutput != "" {
		file, err := os.Create(scanOutput) //nolint:gosec // user-provided output path
		if err != nil {
			return exitError(ExitInfrastructure, "dupscan: cannot create output file (%v)", err)
		}
		defer file.Close() //nolint:errcheck // write errors are reported by Format
		w = file
	}
	if err := f.Format(r, w); err != nil {
		return exitError(ExitInfrastructure, "dupscan: writing %s report (%v)", f.Name(), err)
	}
	return nil
}

// discoveryError maps a discovery failure to an exit code. A root that does
// not exist or is not a directory, or a tracked-only scan outside git, is a
// usage error; anything else is an infrastructure failure.
func discoveryError(err error) error {
	switch {
	case errors.Is(err, discover.ErrNotDirectory), errors.Is(err, fs.ErrNotExist), errors.Is(err, git.ErrRepositoryNotExists):
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	case errors.Is(err, context.Canceled):
		return exitError(ExitInfrastructure, "dupscan: scan cancelled")
	default:
		return exitError(ExitInfrastructure, "dupscan: %v", err)
	}
}

// scanError maps an engine failure to an exit code.
func scanError(err error) error {
	var se *store.StorageError
	switch {
	case errors.As(err, &se):
		return exitError(ExitInfrastructure, "dupscan: storage failure: %v", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return exitError(ExitInfrastructure, "dupscan: scan cancelled")
	default:
		return exitError(ExitInfrastructure, "dupscan: %v", err)
	}
}

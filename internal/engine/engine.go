// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package engine runs a duplicate-detection pass: it collects fingerprinted
// blocks and constant declarations from every file into a run-scoped store,
// then matches and assembles them into violations.
//
// An Engine serves exactly one run. Collect and Run may be called from many
// goroutines while the engine is collecting. Finalize performs a single query
// pass and moves the engine to its terminal state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/dupscan/internal/blocks"
	"github.com/davetashner/dupscan/internal/config"
	"github.com/davetashner/dupscan/internal/constants"
	"github.com/davetashner/dupscan/internal/discover"
	"github.com/davetashner/dupscan/internal/lang"
	"github.com/davetashner/dupscan/internal/model"
	"github.com/davetashner/dupscan/internal/store"
	"github.com/davetashner/dupscan/internal/suppress"
	"github.com/davetashner/dupscan/internal/testable"
)

// FS is the file system Collect reads from. Tests replace it.
var FS testable.FileSystem = testable.DefaultFS

// ErrWrongPhase is returned when an operation is called out of order.
var ErrWrongPhase = errors.New("engine: operation not valid in current phase")

// Skip reasons recorded in Stats.
const (
	SkipUnsupported = "unsupported"
	SkipSyntax      = "syntax"
	SkipRead        = "read"
)

// Options wires the engine's collaborators. Zero values select defaults.
type Options struct {
	// Root is joined to relative paths passed to Collect and Run.
	Root string

	// Registry supplies the language front-ends.
	Registry *lang.Registry

	// Spans holds precomputed suppressions. Directives found while collecting
	// are added to it.
	Spans *suppress.Spans
}

// Engine is a single duplicate-detection run.
type Engine struct {
	cfg      *config.Config
	root     string
	registry *lang.Registry
	spans    *suppress.Spans
	ignore   *discover.Ignore

	extractor *blocks.Extractor
	matcher   *constants.Matcher
	index     *store.Index

	mu    sync.RWMutex // guards phase
	phase store.Phase

	statsMu sync.Mutex
	stats   Stats
}

// New validates cfg and opens a fresh store. Nothing is read from disk until
// Collect or Run.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	hash, _ := blocks.ParseAlgorithm(cfg.HashAlgorithm)
	mode, _ := store.ParseMode(cfg.StorageMode)

	idx, err := store.Open(store.Options{Mode: mode, TempDir: cfg.TempDir})
	if err != nil {
		return nil, err
	}

	if opts.Registry == nil {
		opts.Registry = lang.DefaultRegistry()
	}
	if opts.Spans == nil {
		opts.Spans = suppress.New()
	}

	e := &Engine{
		cfg:      cfg,
		root:     opts.Root,
		registry: opts.Registry,
		spans:    opts.Spans,
		ignore:   discover.NewIgnore(cfg.IgnorePatterns),
		extractor: blocks.NewExtractor(blocks.Options{
			MinLines:  cfg.MinDuplicateLines,
			MinTokens: cfg.MinDuplicateTokens,
			Filters: blocks.Filters{
				ImportGroup:      cfg.Filters.ImportGroup,
				KeywordArgument:  cfg.Filters.KeywordArgument,
				LoggerCall:       cfg.Filters.LoggerCall,
				ExceptionReraise: cfg.Filters.ExceptionReraise,
			},
			Hash: hash,
		}),
		matcher: constants.NewMatcher(constantOptions(cfg)),
		index:   idx,
		stats:   newStats(),
	}
	return e, nil
}

func constantOptions(cfg *config.Config) constants.Options {
	rules := func(l model.Language) constants.Rules {
		n, ws, ed := cfg.ConstantRules(l)
		return constants.Rules{MinOccurrences: n, WordSet: ws, EditDistance: ed}
	}
	opts := constants.Options{
		Default:     rules(model.LangUnknown),
		PerLanguage: make(map[model.Language]constants.Rules),
	}
	for _, l := range model.Languages {
		opts.PerLanguage[l] = rules(l)
	}
	return opts
}

// Phase returns the engine's lifecycle phase.
func (e *Engine) Phase() store.Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Run collects every path with a bounded worker pool and waits for all of
// them. Per-file failures are recorded in Stats; the first fatal error
// (storage failure or cancellation) stops the pool and is returned. done, if
// non-nil, is called once per finished file.
func (e *Engine) Run(ctx context.Context, paths []string, done func(path string)) error {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range paths {
		if gctx.Err() != nil {
			break
		}
		p := p
		g.Go(func() error {
			if err := e.Collect(gctx, p); err != nil {
				return err
			}
			if done != nil {
				done(p)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Collect reads, tokenizes and indexes one file. The returned error is nil
// for per-file problems, which are only counted; it is non-nil when the run
// must stop.
func (e *Engine) Collect(ctx context.Context, path string) error {
	full := path
	if e.root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(e.root, path)
	}
	rel := filepath.ToSlash(path)

	if !e.registry.Supports(path) {
		e.skip(rel, SkipUnsupported, nil)
		return e.checkCollecting()
	}
	src, err := FS.ReadFile(full)
	if err != nil {
		e.skip(rel, SkipRead, err)
		return e.checkCollecting()
	}
	return e.CollectSource(ctx, rel, src)
}

// CollectSource indexes src as the contents of path.
func (e *Engine) CollectSource(ctx context.Context, path string, src []byte) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.phase != store.Collecting {
		return fmt.Errorf("collect %s: %w", path, ErrWrongPhase)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := e.registry.Tokenize(ctx, path, src)
	switch {
	case errors.Is(err, lang.ErrUnsupported):
		e.skip(path, SkipUnsupported, nil)
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		e.skip(path, SkipSyntax, err)
		return nil
	}
	directives := e.spans.Scan(path, src, e.cfg.DirectiveSpanLines)

	blks, bstats := e.extractor.Extract(file)
	for _, b := range blks {
		if err := e.index.InsertBlock(b); err != nil {
			return fmt.Errorf("index %s: %w", path, err)
		}
	}
	var decls []model.ConstantDeclaration
	if e.cfg.DetectDuplicateConstants {
		decls = constants.Extract(file)
		for _, d := range decls {
			if err := e.index.InsertConstant(d); err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}
		}
	}

	e.statsMu.Lock()
	e.stats.addFile(file.Language, bstats, directives)
	e.statsMu.Unlock()
	slog.Debug("collected file", "file", path, "blocks", len(blks), "constants", len(decls))
	return nil
}

func (e *Engine) checkCollecting() error {
	if e.Phase() != store.Collecting {
		return ErrWrongPhase
	}
	return nil
}

func (e *Engine) skip(path, reason string, err error) {
	e.statsMu.Lock()
	e.stats.FilesSkipped++
	e.stats.SkipReasons[reason]++
	e.statsMu.Unlock()
	if err != nil {
		slog.Warn("skipping file", "file", path, "reason", reason, "error", err)
	} else {
		slog.Debug("skipping file", "file", path, "reason", reason)
	}
}

// Finalize seals the store, runs both matchers once and returns the assembled
// violations ordered by primary location. The store is released afterwards
// and the engine cannot be reused.
func (e *Engine) Finalize(ctx context.Context) ([]model.Violation, error) {
	e.mu.Lock()
	if e.phase != store.Collecting {
		e.mu.Unlock()
		return nil, fmt.Errorf("finalize: %w", ErrWrongPhase)
	}
	e.phase = store.Finalizing
	e.mu.Unlock()
	defer e.Close() //nolint:errcheck // released on every path

	if err := e.index.Seal(); err != nil {
		return nil, err
	}
	blocksIndexed, constantsIndexed := e.index.Counts()

	groups, err := e.matchBlocks(ctx)
	if err != nil {
		return nil, err
	}
	if e.cfg.DetectDuplicateConstants {
		cgroups, err := e.matchConstants()
		if err != nil {
			return nil, err
		}
		groups = append(groups, cgroups...)
	}
	violations := Assemble(groups)

	e.statsMu.Lock()
	e.stats.Blocks = blocksIndexed
	e.stats.Constants = constantsIndexed
	for _, g := range groups {
		e.stats.Groups[g.Category]++
	}
	e.stats.Violations = len(violations)
	e.statsMu.Unlock()

	slog.Info("finalize complete", "blocks", blocksIndexed, "constants", constantsIndexed,
		"groups", len(groups), "violations", len(violations))
	return violations, nil
}

func (e *Engine) matchConstants() ([]model.DuplicateGroup, error) {
	decls, err := e.index.QueryConstants()
	if err != nil {
		return nil, err
	}
	kept := decls[:0]
	for _, d := range decls {
		loc := model.Location{File: d.FilePath, StartLine: d.Line, EndLine: d.Line}
		if e.ignored(d.FilePath) {
			continue
		}
		// A constant is reported under either category, so either suppresses it.
		if e.spans.Covered(model.CategoryDuplicateConstant, loc) || e.spans.Covered(model.CategorySimilarConstant, loc) {
			continue
		}
		kept = append(kept, d)
	}
	return e.matcher.Match(kept), nil
}

func (e *Engine) ignored(path string) bool {
	return e.ignore.Match(path, false)
}

// Close discards the store. It is safe to call at any point, including
// after a failed or cancelled collection.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.phase = store.Done
	e.mu.Unlock()
	return e.index.Close()
}

// Stats returns a snapshot of the run statistics.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats.clone()
}

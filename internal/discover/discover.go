// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

// Package discover finds the source files a scan should read.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/davetashner/dupscan/internal/testable"
)

// FS is the file system discovery walks. Tests replace it.
var FS testable.FileSystem = testable.DefaultFS

// GitOpener opens the repository for tracked-only discovery. Tests replace it.
var GitOpener testable.GitOpener = testable.DefaultGitOpener

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// DefaultExcludedDirs are directory names never descended into, at any depth.
var DefaultExcludedDirs = []string{".git", "node_modules", "vendor", "__pycache__", "dist", "build"}

// Options controls discovery.
type Options struct {
	// Supports reports whether a path has a language front-end. Nil accepts
	// every regular file.
	Supports func(path string) bool

	// Exclude holds extra patterns in .gitignore syntax.
	Exclude []string

	// TrackedOnly restricts results to files in the git index.
	TrackedOnly bool

	// NoGitignore disables .gitignore handling.
	NoGitignore bool
}

// Files walks root and returns the slash-separated paths, relative to root,
// of every file the scan should read, sorted.
func Files(ctx context.Context, root string, opts Options) ([]string, error) {
	abs, err := FS.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := FS.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	matcher := newMatcher(abs, opts)
	var tracked map[string]bool
	if opts.TrackedOnly {
		if tracked, err = trackedFiles(abs); err != nil {
			return nil, err
		}
	}
	excluded := make(map[string]bool, len(DefaultExcludedDirs))
	for _, d := range DefaultExcludedDirs {
		excluded[d] = true
	}

	var files []string
	err = FS.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == abs {
				return walkErr
			}
			slog.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == abs {
			return nil
		}
		rel, relErr := filepath.Rel(abs, path)
		if relErr != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if excluded[d.Name()] || matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		// Symlinks and other special files are not followed.
		if !d.Type().IsRegular() {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matcher.Match(parts, false) {
			return nil
		}
		if tracked != nil && !tracked[rel] {
			return nil
		}
		if opts.Supports != nil && !opts.Supports(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	slog.Debug("discovered files", "root", abs, "files", len(files), "tracked_only", opts.TrackedOnly)
	return files, nil
}

// newMatcher combines the user's patterns with every .gitignore under root.
func newMatcher(root string, opts Options) gitignore.Matcher {
	var patterns []gitignore.Pattern
	if !opts.NoGitignore {
		ps, err := gitignore.ReadPatterns(osfs.New(root), nil)
		if err != nil {
			slog.Warn("reading .gitignore files", "root", root, "error", err)
		}
		patterns = append(patterns, ps...)
	}
	patterns = append(patterns, parsePatterns(opts.Exclude)...)
	return gitignore.NewMatcher(patterns)
}

// trackedFiles returns the index entries under root, relative to root.
func trackedFiles(root string) (map[string]bool, error) {
	repo, err := GitOpener.Open(root)
	if err != nil {
		return nil, fmt.Errorf("tracked-only scan needs a git repository: %w", err)
	}
	repoRoot, err := repo.Root()
	if err != nil {
		return nil, err
	}
	entries, err := repo.TrackedFiles()
	if err != nil {
		return nil, err
	}
	prefix, err := filepath.Rel(repoRoot, root)
	if err != nil {
		return nil, fmt.Errorf("scan root outside repository: %w", err)
	}
	prefix = filepath.ToSlash(prefix)

	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		switch {
		case prefix == ".":
			out[e] = true
		case strings.HasPrefix(e, prefix+"/"):
			out[strings.TrimPrefix(e, prefix+"/")] = true
		}
	}
	return out, nil
}

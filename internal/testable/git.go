package testable

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GitOpener opens the git repository containing a path.
type GitOpener interface {
	Open(path string) (GitRepository, error)
}

// GitRepository is the subset of a repository used for tracked-only scans.
type GitRepository interface {
	// Root returns the absolute path of the working tree.
	Root() (string, error)

	// TrackedFiles lists the paths in the git index, slash-separated and
	// relative to Root.
	TrackedFiles() ([]string, error)
}

// RealGitOpener opens repositories with go-git, searching parent directories
// for the .git directory.
type RealGitOpener struct{}

// Open returns the repository enclosing path.
func (RealGitOpener) Open(path string) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return &RealGitRepository{repo: repo}, nil
}

// RealGitRepository wraps *git.Repository.
type RealGitRepository struct {
	repo *git.Repository
}

// Root returns the working tree root.
func (r *RealGitRepository) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// TrackedFiles reads the index entries.
func (r *RealGitRepository) TrackedFiles() ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read git index: %w", err)
	}
	out := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		out = append(out, e.Name)
	}
	return out, nil
}

// DefaultGitOpener is the GitOpener packages use when none is injected.
var DefaultGitOpener GitOpener = RealGitOpener{}

var (
	_ GitOpener     = RealGitOpener{}
	_ GitRepository = (*RealGitRepository)(nil)
)

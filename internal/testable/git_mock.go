package testable

import "github.com/go-git/go-git/v5"

// MockGitOpener is a test double for GitOpener. When OpenFunc is nil, Open
// returns Repo, or OpenErr, or git.ErrRepositoryNotExists.
type MockGitOpener struct {
	Repo     GitRepository
	OpenErr  error
	OpenFunc func(path string) (GitRepository, error)

	// OpenCalls records the paths passed to Open.
	OpenCalls []string
}

// Open records the call and returns the configured result.
func (m *MockGitOpener) Open(path string) (GitRepository, error) {
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Repo != nil {
		return m.Repo, nil
	}
	return nil, git.ErrRepositoryNotExists
}

// MockGitRepository is a test double for GitRepository.
type MockGitRepository struct {
	RootPath string
	RootErr  error
	Files    []string
	FilesErr error
}

// Root returns RootPath or RootErr.
func (m *MockGitRepository) Root() (string, error) {
	return m.RootPath, m.RootErr
}

// TrackedFiles returns Files or FilesErr.
func (m *MockGitRepository) TrackedFiles() ([]string, error) {
	return m.Files, m.FilesErr
}

var (
	_ GitOpener     = (*MockGitOpener)(nil)
	_ GitRepository = (*MockGitRepository)(nil)
)

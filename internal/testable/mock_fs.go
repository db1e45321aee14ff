package testable

import (
	"io/fs"
	"os"
)

// MockFileSystem is a test double for FileSystem. A nil function field falls
// through to OsFileSystem, so tests override only what they care about.
type MockFileSystem struct {
	AbsFn      func(path string) (string, error)
	StatFn     func(name string) (os.FileInfo, error)
	ReadFileFn func(name string) ([]byte, error)
	WalkDirFn  func(root string, fn fs.WalkDirFunc) error
}

var real OsFileSystem

// Abs calls AbsFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Abs(path string) (string, error) {
	if m.AbsFn != nil {
		return m.AbsFn(path)
	}
	return real.Abs(path)
}

// Stat calls StatFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if m.StatFn != nil {
		return m.StatFn(name)
	}
	return real.Stat(name)
}

// ReadFile calls ReadFileFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileFn != nil {
		return m.ReadFileFn(name)
	}
	return real.ReadFile(name)
}

// WalkDir calls WalkDirFn if set, otherwise delegates to OsFileSystem.
func (m *MockFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	if m.WalkDirFn != nil {
		return m.WalkDirFn(root, fn)
	}
	return real.WalkDir(root, fn)
}

var _ FileSystem = (*MockFileSystem)(nil)

// Package testable holds the seams between dupscan and the operating system:
// the file system it walks and reads, and the git repositories it consults
// for tracked-only discovery.
package testable

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the subset of file system access the scanner needs.
type FileSystem interface {
	// Abs returns an absolute representation of path.
	Abs(path string) (string, error)

	// Stat returns a FileInfo describing the named file.
	Stat(name string) (os.FileInfo, error)

	// ReadFile reads the named file and returns the contents.
	ReadFile(name string) ([]byte, error)

	// WalkDir walks the file tree rooted at root in lexical order.
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// OsFileSystem delegates to the os and path/filepath packages.
type OsFileSystem struct{}

// Abs wraps filepath.Abs.
func (OsFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Stat wraps os.Stat.
func (OsFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile wraps os.ReadFile.
func (OsFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec // caller controls path
}

// WalkDir wraps filepath.WalkDir.
func (OsFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// DefaultFS is the FileSystem packages use when none is injected.
var DefaultFS FileSystem = OsFileSystem{}

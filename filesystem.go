package jsonconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrInaccessiblePath        = errors.New("inaccessible path")
	ErrCannotCreateDirectories = errors.New("cannot create directories")
)

// FileSystem is the storage a store reads from and writes to. Reads and
// writes always cover the whole file.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file content, creating the file if needed.
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem is the FileSystem backed by package os.
type OSFileSystem struct{}

func (OSFileSystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }
func (OSFileSystem) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }

func (OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// exists reports whether path exists. Errors other than "not exist" are
// returned so callers can tell a missing file from an unreadable one.
func exists(fsys FileSystem, path string) (bool, error) {
	_, err := fsys.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

// EnsurePath ensures the directories for a file path exist and the path
// does not already exist as a directory.
func EnsurePath(p string) error {
	return ensurePath(OSFileSystem{}, p)
}

func ensurePath(fsys FileSystem, p string) error {
	info, err := fsys.Stat(p)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrInaccessiblePath, p)
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrInaccessiblePath, err)
	}
	if err := fsys.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotCreateDirectories, err)
	}
	return nil
}

// Package common provides shared interfaces and utilities used across the audit packages.
//
//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"io/fs"
	"os"
)

// Error definitions for static error handling
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// FileSystem defines the interface for the file system operations the audit
// pipeline performs. It exists so revocation failures (permission denied,
// concurrently removed files) can be injected in tests without touching a
// real file system.
type FileSystem interface {
	// Lstat returns file information without following symlinks
	Lstat(path string) (fs.FileInfo, error)

	// Stat returns file information, following symlinks
	Stat(path string) (fs.FileInfo, error)

	// Chmod changes the mode of the named file, including the
	// setuid/setgid/sticky bits
	Chmod(path string, mode fs.FileMode) error

	// FileExists checks if a file or directory exists
	FileExists(path string) (bool, error)

	// IsDir checks if the path is a directory
	IsDir(path string) (bool, error)

	// ReadFile reads the named file and returns its contents
	ReadFile(path string) ([]byte, error)
}

// DefaultFileSystem implements FileSystem using standard os package functions
type DefaultFileSystem struct{}

// NewDefaultFileSystem creates a new DefaultFileSystem
func NewDefaultFileSystem() *DefaultFileSystem {
	return &DefaultFileSystem{}
}

// Lstat returns file information without following symlinks
func (fsys *DefaultFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Stat returns file information, following symlinks
func (fsys *DefaultFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Chmod changes the mode of the named file
func (fsys *DefaultFileSystem) Chmod(path string, mode fs.FileMode) error {
	return os.Chmod(path, mode)
}

// FileExists checks if a file or directory exists
func (fsys *DefaultFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// IsDir checks if the path is a directory
func (fsys *DefaultFileSystem) IsDir(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ReadFile reads the named file and returns its contents
func (fsys *DefaultFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return os.ReadFile(path) // #nosec G304 -- path is caller-validated configuration input
}

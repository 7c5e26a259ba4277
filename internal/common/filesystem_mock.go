package common

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// MockFileSystem implements FileSystem for testing. Files are held in memory
// as path -> MockFileInfo entries; per-path errors can be injected to
// simulate permission failures or files vanishing mid-pipeline.
type MockFileSystem struct {
	files map[string]*MockFileInfo
	// LstatErr and ChmodErr inject failures for specific paths
	LstatErr map[string]error
	ChmodErr map[string]error
	// FileContents backs ReadFile for config loading tests
	FileContents map[string][]byte
}

// MockFileInfo implements fs.FileInfo for testing
type MockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

// Name returns the base name of the file
func (m *MockFileInfo) Name() string { return m.name }

// Size returns the length in bytes
func (m *MockFileInfo) Size() int64 { return m.size }

// Mode returns the file mode bits
func (m *MockFileInfo) Mode() os.FileMode { return m.mode }

// ModTime returns the modification time
func (m *MockFileInfo) ModTime() time.Time { return m.modTime }

// IsDir reports whether m describes a directory
func (m *MockFileInfo) IsDir() bool { return m.isDir }

// Sys returns the underlying data source (nil for mock)
func (m *MockFileInfo) Sys() any { return nil }

// NewMockFileSystem creates a new MockFileSystem
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:        make(map[string]*MockFileInfo),
		LstatErr:     make(map[string]error),
		ChmodErr:     make(map[string]error),
		FileContents: make(map[string][]byte),
	}
}

// AddFile registers a regular file with the given mode
func (m *MockFileSystem) AddFile(path string, mode os.FileMode) {
	m.files[path] = &MockFileInfo{
		name:    filepath.Base(path),
		mode:    mode,
		modTime: time.Now(),
	}
}

// AddDir registers a directory with the given permission bits
func (m *MockFileSystem) AddDir(path string, perm os.FileMode) {
	m.files[path] = &MockFileInfo{
		name:    filepath.Base(path),
		mode:    perm | os.ModeDir,
		modTime: time.Now(),
		isDir:   true,
	}
}

// RemoveFile deletes a registered file, simulating concurrent removal
func (m *MockFileSystem) RemoveFile(path string) {
	delete(m.files, path)
}

// Mode returns the current mode of a registered file and whether it exists
func (m *MockFileSystem) Mode(path string) (os.FileMode, bool) {
	info, ok := m.files[path]
	if !ok {
		return 0, false
	}
	return info.mode, true
}

// Lstat returns file information without following symlinks
func (m *MockFileSystem) Lstat(path string) (fs.FileInfo, error) {
	if err, ok := m.LstatErr[path]; ok {
		return nil, err
	}
	info, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return info, nil
}

// Stat returns file information (the mock has no symlinks, so this is Lstat)
func (m *MockFileSystem) Stat(path string) (fs.FileInfo, error) {
	return m.Lstat(path)
}

// Chmod changes the mode of a registered file
func (m *MockFileSystem) Chmod(path string, mode fs.FileMode) error {
	if err, ok := m.ChmodErr[path]; ok {
		return err
	}
	info, ok := m.files[path]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: path, Err: fs.ErrNotExist}
	}
	info.mode = mode | (info.mode & os.ModeDir)
	return nil
}

// FileExists checks if a file is registered
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

// IsDir checks if the registered path is a directory
func (m *MockFileSystem) IsDir(path string) (bool, error) {
	info, ok := m.files[path]
	if !ok {
		return false, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return info.isDir, nil
}

// ReadFile returns the registered contents for a path
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	content, ok := m.FileContents[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

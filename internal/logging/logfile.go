package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Common errors
var (
	ErrEmptyLogDirectory  = errors.New("log directory cannot be empty")
	ErrLogDirNotDirectory = errors.New("log directory path is not a directory")
)

// File permission constants
const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600
)

// ValidateLogDir ensures the log directory exists (creating it if needed)
// and is actually a directory.
func ValidateLogDir(dir string) error {
	if dir == "" {
		return ErrEmptyLogDirectory
	}

	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat log directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrLogDirNotDirectory, dir)
	}

	return nil
}

// RunLogFilename generates the auto-named per-run log file path:
// <hostname>_<timestamp>_<runid>.json inside dir.
func RunLogFilename(dir, runID string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	timestamp := time.Now().UTC().Format("20060102T150405Z")

	filename := fmt.Sprintf("%s_%s_%s.json", hostname, timestamp, runID)
	return filepath.Join(dir, filename)
}

// OpenRunLogFile validates the log directory and opens the per-run JSON log
// file for appending.
func OpenRunLogFile(dir, runID string) (*os.File, error) {
	if err := ValidateLogDir(dir); err != nil {
		return nil, err
	}

	path := RunLogFilename(dir, runID)
	// #nosec G304 - path is built from a validated directory and a generated run ID
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return file, nil
}

// Package scanner walks a directory tree and collects the files carrying the
// setuid or setgid permission bits.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
)

// PrivilegeBits are the mode bits that make a file privileged.
var PrivilegeBits = fs.ModeSetuid | fs.ModeSetgid

// PrivilegedFile records one file whose mode intersects the setuid/setgid
// bits. Records are immutable once created; the correlator and revoker only
// read them.
type PrivilegedFile struct {
	// Path is the absolute path of the file as seen during the walk
	Path string

	// Mode is the lstat mode at scan time, including the privilege bits
	Mode fs.FileMode
}

// OctalMode renders the permission and privilege bits the way chmod and ls
// report them (e.g. 4755 for a setuid rwxr-xr-x file).
func (p PrivilegedFile) OctalMode() string {
	v := uint32(p.Mode.Perm())
	if p.Mode&fs.ModeSetuid != 0 {
		v |= 0o4000
	}
	if p.Mode&fs.ModeSetgid != 0 {
		v |= 0o2000
	}
	if p.Mode&fs.ModeSticky != 0 {
		v |= 0o1000
	}
	return fmt.Sprintf("%04o", v)
}

// Scanner discovers privileged files under a root directory.
type Scanner struct {
	logger *slog.Logger
}

// New creates a Scanner. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan recursively visits every entry reachable from root and returns a
// record for each regular file whose mode has the setuid or setgid bit set.
//
// The result is a snapshot: files created or modified after Scan returns are
// invisible to this run. Unreadable directories and entries that fail to
// stat are logged and skipped; a single unreadable subtree never aborts the
// scan. Symbolic links are never followed (lstat semantics) and their
// targets are not inspected, so a privileged binary is only reported under
// its real path.
func (s *Scanner) Scan(ctx context.Context, root string) ([]PrivilegedFile, error) {
	var inventory []PrivilegedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			s.logger.Warn("Skipping unreadable entry during scan",
				"path", path,
				"error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished or became unreadable between readdir and stat
			s.logger.Warn("Could not stat file during scan",
				"path", path,
				"error", err)
			return nil
		}

		if info.Mode()&PrivilegeBits != 0 {
			rec := PrivilegedFile{Path: path, Mode: info.Mode()}
			inventory = append(inventory, rec)
			s.logger.Debug("Found privileged file",
				"path", rec.Path,
				"mode", rec.OctalMode())
		}

		return nil
	})
	if err != nil {
		// WalkDir only propagates the context error; traversal errors are
		// consumed above.
		return inventory, fmt.Errorf("scan aborted: %w", err)
	}

	return inventory, nil
}

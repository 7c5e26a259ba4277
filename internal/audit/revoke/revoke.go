// Package revoke applies REVOKE decisions by clearing the setuid/setgid
// bits on the filesystem, or reports what it would do under dry-run. This
// is the only component in the pipeline that mutates anything.
package revoke

import (
	"context"
	"io/fs"
	"log/slog"

	"github.com/privsweep/privsweep/internal/audit/correlate"
	"github.com/privsweep/privsweep/internal/audit/scanner"
	"github.com/privsweep/privsweep/internal/common"
)

// Outcome reports one attempted (or simulated) revocation. Outcomes exist
// for reporting only; nothing is persisted across runs.
type Outcome struct {
	// Path is the file the revocation applied to
	Path string

	// Mode is the file mode after the operation (or the unchanged mode
	// under dry-run). Zero when the file could not be inspected.
	Mode fs.FileMode

	// DryRun is true when no mutation was performed
	DryRun bool

	// Err is the per-file failure, nil on success
	Err error
}

// Succeeded reports whether the revocation (or dry-run report) completed.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Revoker clears privilege bits for files the correlator marked REVOKE.
type Revoker struct {
	fs     common.FileSystem
	dryRun bool
	logger *slog.Logger
}

// New creates a Revoker. A nil fs uses the real filesystem; a nil logger
// falls back to slog.Default.
func New(fsys common.FileSystem, dryRun bool, logger *slog.Logger) *Revoker {
	if fsys == nil {
		fsys = common.NewDefaultFileSystem()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Revoker{
		fs:     fsys,
		dryRun: dryRun,
		logger: logger,
	}
}

// Apply processes every REVOKE decision to completion, one outcome per
// decision. A failure on one file (permission denied, file removed since
// the scan) is logged with its path and reason and never blocks the
// remaining files; there are no retries.
//
// Cancellation is honored between files only: an in-flight mode change
// always completes, so no file is left in a partial state. Files skipped
// because of cancellation produce no outcome.
func (r *Revoker) Apply(ctx context.Context, correlations []correlate.Correlation) []Outcome {
	var outcomes []Outcome

	for _, c := range correlations {
		if c.Decision != correlate.Revoke {
			continue
		}

		if err := ctx.Err(); err != nil {
			r.logger.Warn("Revocation interrupted, remaining files untouched",
				"processed", len(outcomes),
				"error", err)
			break
		}

		outcomes = append(outcomes, r.revokeOne(c.File))
	}

	return outcomes
}

// revokeOne clears the setuid/setgid bits on a single file. Clearing bits
// that are already clear is a successful no-op, so re-running revocation is
// idempotent.
func (r *Revoker) revokeOne(file scanner.PrivilegedFile) Outcome {
	if r.dryRun {
		r.logger.Info("[Dry Run] Would remove setuid/setgid bits",
			"path", file.Path,
			"mode", file.OctalMode())
		return Outcome{Path: file.Path, Mode: file.Mode, DryRun: true}
	}

	info, err := r.fs.Lstat(file.Path)
	if err != nil {
		r.logger.Error("Failed to inspect file for revocation",
			"path", file.Path,
			"error", err)
		return Outcome{Path: file.Path, Err: err}
	}

	cleared := info.Mode() &^ scanner.PrivilegeBits
	if cleared == info.Mode() {
		// Bits already clear, nothing to do
		r.logger.Debug("Privilege bits already clear", "path", file.Path)
		return Outcome{Path: file.Path, Mode: cleared}
	}

	if err := r.fs.Chmod(file.Path, cleared); err != nil {
		r.logger.Error("Failed to remove setuid/setgid bits",
			"path", file.Path,
			"error", err)
		return Outcome{Path: file.Path, Mode: info.Mode(), Err: err}
	}

	r.logger.Info("Removed setuid/setgid bits",
		"path", file.Path,
		"previous_mode", file.OctalMode())
	return Outcome{Path: file.Path, Mode: cleared}
}

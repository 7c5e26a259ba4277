// Package audit wires the four pipeline stages together: filesystem scan,
// process activity monitoring, correlation, and revocation. Stages run
// strictly in sequence with no overlap; each stage's output is the sole
// input to the next, and a file revoked in one run is never re-scanned
// within the same run.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/privsweep/privsweep/internal/audit/config"
	"github.com/privsweep/privsweep/internal/audit/correlate"
	"github.com/privsweep/privsweep/internal/audit/monitor"
	"github.com/privsweep/privsweep/internal/audit/revoke"
	"github.com/privsweep/privsweep/internal/audit/scanner"
	"github.com/privsweep/privsweep/internal/common"
)

// Report collects the result of one pipeline run. Each stage contributes an
// explicit value instead of accumulating global logging state, so the CLI
// layer owns all formatting and the pipeline stays independently testable.
type Report struct {
	// Files is the scanner's inventory snapshot
	Files []scanner.PrivilegedFile

	// ObservedExecutables is the number of distinct executables seen
	// during the monitoring window
	ObservedExecutables int

	// Correlations holds the per-file KEEP/REVOKE decisions in
	// inventory order
	Correlations []correlate.Correlation

	// Outcomes holds one entry per attempted (or simulated) revocation
	Outcomes []revoke.Outcome

	// DryRun records whether the revoker was allowed to mutate
	DryRun bool

	// Elapsed is the total wall-clock duration of the run
	Elapsed time.Duration
}

// Kept returns the number of files that retain their privilege bits.
func (r *Report) Kept() int {
	n := 0
	for _, c := range r.Correlations {
		if c.Decision == correlate.Keep {
			n++
		}
	}
	return n
}

// Revoked returns the number of successful (or simulated) revocations.
func (r *Report) Revoked() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of revocations that failed.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			n++
		}
	}
	return n
}

// Pipeline runs the audit end to end.
type Pipeline struct {
	cfg     *config.Config
	scanner *scanner.Scanner
	monitor *monitor.Monitor
	revoker *revoke.Revoker
	logger  *slog.Logger
}

// Options configures a Pipeline. Config is required; everything else
// defaults to the production implementation.
type Options struct {
	// Config is the validated audit configuration
	Config *config.Config

	// Logger for stage transitions and per-file diagnostics
	Logger *slog.Logger

	// Table substitutes the process table implementation (tests)
	Table monitor.ProcessTable

	// FS substitutes the filesystem used by the revoker (tests)
	FS common.FileSystem

	// OnSample is forwarded to the monitor for progress reporting
	OnSample func(observed int)
}

// NewPipeline creates a Pipeline from the given options.
func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		cfg:     opts.Config,
		scanner: scanner.New(logger),
		monitor: monitor.New(monitor.Options{
			Table:    opts.Table,
			Interval: opts.Config.PollInterval(),
			Logger:   logger,
			OnSample: opts.OnSample,
		}),
		revoker: revoke.New(opts.FS, opts.Config.DryRun, logger),
		logger:  logger,
	}
}

// Run executes scan, monitor, correlate, and revoke in order and returns
// the aggregated report.
//
// Cancellation before the revoke stage aborts the run without touching the
// filesystem; the partial report is returned alongside the error so the CLI
// can still show what was gathered. Once revocation has begun, each
// per-file operation completes atomically and cancellation only stops the
// remaining files.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{DryRun: p.cfg.DryRun}

	p.logger.Info("Scanning for setuid/setgid files", "root", p.cfg.Root)
	files, err := p.scanner.Scan(ctx, p.cfg.Root)
	report.Files = files
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("scan stage: %w", err)
	}
	p.logger.Info("Scan completed", "privileged_files", len(files))

	observed, err := p.monitor.Observe(ctx, p.cfg.MonitorWindow())
	report.ObservedExecutables = observed.Len()
	if err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("monitor stage: %w", err)
	}

	report.Correlations = correlate.Correlate(files, observed)
	for _, c := range report.Correlations {
		if c.Decision == correlate.Keep {
			p.logger.Info("Keeping privileges (observed running)", "path", c.File.Path)
		}
	}

	// Last chance to abort with the filesystem untouched
	if err := ctx.Err(); err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("aborted before revocation: %w", err)
	}

	report.Outcomes = p.revoker.Apply(ctx, report.Correlations)
	report.Elapsed = time.Since(start)

	p.logger.Info("Audit completed",
		"privileged_files", len(report.Files),
		"observed_executables", report.ObservedExecutables,
		"kept", report.Kept(),
		"revoked", report.Revoked(),
		"failed", report.Failed(),
		"dry_run", report.DryRun,
		"elapsed", report.Elapsed.String())

	return report, nil
}

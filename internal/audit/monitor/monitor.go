// Package monitor samples the live process table over a fixed wall-clock
// window and accumulates the distinct executable paths that were observed
// running.
//
// Polling is a best-effort observation, not an exhaustive audit trail: a
// privileged binary invoked and exited entirely between two samples is
// missed and will be classified as unused. This false-negative window is a
// documented limitation of the polling design; shrinking the interval
// reduces it but cannot eliminate it.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// ErrNonPositiveWindow is returned when Observe is called with a
// non-positive duration. Callers are expected to validate the duration at
// the configuration boundary; this is the backstop.
var ErrNonPositiveWindow = errors.New("monitoring window must be positive")

// Monitor accumulates process observations over a window.
type Monitor struct {
	table    ProcessTable
	interval time.Duration
	logger   *slog.Logger
	onSample func(observed int)
}

// Options configures a Monitor.
type Options struct {
	// Table is the process table to sample. Defaults to the system table.
	Table ProcessTable

	// Interval is the sampling cadence. Defaults to DefaultInterval.
	Interval time.Duration

	// Logger for sampling diagnostics. Defaults to slog.Default.
	Logger *slog.Logger

	// OnSample, when set, is called after every sample with the current
	// number of distinct executables observed. Used by the CLI for
	// progress reporting; must not block.
	OnSample func(observed int)
}

// New creates a Monitor with the given options.
func New(opts Options) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := opts.Table
	if table == nil {
		table = NewSystemTable(logger)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		table:    table,
		interval: interval,
		logger:   logger,
		onSample: opts.OnSample,
	}
}

// Interval returns the sampling cadence.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Observe samples the process table repeatedly until the window d has
// elapsed and returns the union of executable paths seen across all
// samples. The returned set is frozen: nothing writes to it after Observe
// returns.
//
// Observe returns no earlier than d after it was called and no later than
// d plus one poll interval (plus the bounded duration of the final sample).
// Each sample is limited to one interval so a stalled process table read
// cannot extend the window. If ctx is cancelled mid-window, the partial set
// is returned together with the context error.
func (m *Monitor) Observe(ctx context.Context, d time.Duration) (*ExecutableSet, error) {
	observed := NewExecutableSet()
	if d <= 0 {
		return observed, fmt.Errorf("%w: got %v", ErrNonPositiveWindow, d)
	}

	m.logger.Info("Monitoring processes",
		"window", d.String(),
		"interval", m.interval.String())

	deadline := time.Now().Add(d)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.sample(ctx, observed)
		if m.onSample != nil {
			m.onSample(observed.Len())
		}

		if !time.Now().Before(deadline) {
			break
		}

		select {
		case <-ctx.Done():
			m.logger.Warn("Monitoring interrupted",
				"observed", observed.Len(),
				"error", ctx.Err())
			return observed, ctx.Err()
		case <-ticker.C:
		}
	}

	m.logger.Info("Process monitoring completed",
		"observed", observed.Len())
	return observed, nil
}

// sample takes one bounded snapshot of the process table and merges it into
// the observed set. Sample-level failures are logged and skipped; the
// sampling loop keeps running.
func (m *Monitor) sample(ctx context.Context, observed *ExecutableSet) {
	sampleCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	paths, err := m.table.Executables(sampleCtx)
	if err != nil {
		m.logger.Warn("Process table sample failed", "error", err)
		return
	}

	for _, path := range paths {
		observed.Add(path)
	}
}

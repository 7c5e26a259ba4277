package monitor

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessTable abstracts one snapshot of the live process table. The system
// implementation is backed by gopsutil; tests substitute a fake. An
// exec-event subscription mechanism could be substituted here without
// touching the correlator or revoker.
type ProcessTable interface {
	// Executables returns the executable paths of the currently running
	// processes. Processes whose path cannot be resolved are omitted, not
	// reported as errors.
	Executables(ctx context.Context) ([]string, error)
}

// SystemTable reads the real process table via gopsutil.
type SystemTable struct {
	logger *slog.Logger
}

// NewSystemTable creates a SystemTable. A nil logger falls back to slog.Default.
func NewSystemTable(logger *slog.Logger) *SystemTable {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemTable{logger: logger}
}

// Executables lists the executable paths of all visible processes.
// Processes that vanish mid-sample, are inaccessible due to permissions, or
// are zombies (no readable exe link) are skipped for this sample.
func (t *SystemTable) Executables(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(procs))
	for _, p := range procs {
		exe, err := p.ExeWithContext(ctx)
		if err != nil {
			t.logger.Debug("Could not resolve process executable",
				"pid", p.Pid,
				"error", err)
			continue
		}
		if exe == "" {
			continue
		}
		paths = append(paths, exe)
	}

	return paths, nil
}

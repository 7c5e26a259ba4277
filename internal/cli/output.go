// Package cli renders pipeline reports for the operator. All formatting
// lives here; the audit packages only return values.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"github.com/privsweep/privsweep/internal/audit"
	"github.com/privsweep/privsweep/internal/audit/correlate"
	"github.com/privsweep/privsweep/internal/audit/revoke"
)

// RenderReport writes the run summary and the per-file decision table.
func RenderReport(w io.Writer, report *audit.Report) {
	fmt.Fprintf(w, "Privileged files found:    %d\n", len(report.Files))
	fmt.Fprintf(w, "Executables observed:      %d\n", report.ObservedExecutables)
	fmt.Fprintf(w, "Kept:                      %d\n", report.Kept())
	if report.DryRun {
		fmt.Fprintf(w, "Would revoke:              %d\n", report.Revoked())
	} else {
		fmt.Fprintf(w, "Revoked:                   %d\n", report.Revoked())
	}
	if failed := report.Failed(); failed > 0 {
		fmt.Fprintf(w, "Failed:                    %d\n", failed)
	}
	fmt.Fprintf(w, "Elapsed:                   %s\n", report.Elapsed.Round(time.Millisecond))

	if len(report.Correlations) == 0 {
		return
	}

	outcomes := make(map[string]revoke.Outcome, len(report.Outcomes))
	for _, o := range report.Outcomes {
		outcomes[o.Path] = o
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Path", "Mode", "Decision", "Outcome"})
	for _, c := range report.Correlations {
		t.AppendRow(table.Row{
			c.File.Path,
			c.File.OctalMode(),
			c.Decision.String(),
			outcomeText(c, outcomes),
		})
	}
	t.Render()
}

// outcomeText describes what happened (or would happen) to one file.
func outcomeText(c correlate.Correlation, outcomes map[string]revoke.Outcome) string {
	if c.Decision == correlate.Keep {
		return "kept (observed running)"
	}

	o, ok := outcomes[c.File.Path]
	if !ok {
		// Revocation never ran for this file (interrupted run)
		return "skipped"
	}
	switch {
	case o.Err != nil:
		return fmt.Sprintf("failed: %v", o.Err)
	case o.DryRun:
		return "would revoke"
	default:
		return "revoked"
	}
}

// NewMonitorProgress returns a per-sample hook that drives a progress bar
// across the monitoring window. samples is the expected number of polls
// (window / interval).
func NewMonitorProgress(w io.Writer, samples int) func(observed int) {
	bar := progressbar.NewOptions(samples,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("monitoring processes"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return func(observed int) {
		bar.Describe(fmt.Sprintf("monitoring processes (%d seen)", observed))
		_ = bar.Add(1)
	}
}

// Package correlate joins the scanner's inventory of privileged files
// against the set of executables observed running, producing a KEEP or
// REVOKE decision per file.
package correlate

import (
	"github.com/privsweep/privsweep/internal/audit/monitor"
	"github.com/privsweep/privsweep/internal/audit/scanner"
)

// Decision is the per-file classification.
type Decision int

const (
	// Keep means the file was observed running and retains its privilege bits
	Keep Decision = iota
	// Revoke means the file was not observed running and loses its privilege bits
	Revoke
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Keep:
		return "KEEP"
	case Revoke:
		return "REVOKE"
	default:
		return "UNKNOWN"
	}
}

// Correlation pairs one inventory record with its decision.
type Correlation struct {
	File     scanner.PrivilegedFile
	Decision Decision
}

// Correlate evaluates every inventory record exactly once, preserving
// inventory order: Keep iff the record's path is a member of the observed
// set, Revoke otherwise. It performs no I/O, does not mutate the observed
// set, and is deterministic for fixed inputs.
//
// Path comparison is exact-string. Symlinks, relative spellings, and bind
// mounts are not normalized, so two spellings of the same underlying file
// are treated as distinct paths. This matches the scanner (which records
// real paths) and the monitor (which records resolved /proc exe paths); it
// is a known limitation, not something correlation papers over.
func Correlate(inventory []scanner.PrivilegedFile, observed *monitor.ExecutableSet) []Correlation {
	correlations := make([]Correlation, 0, len(inventory))
	for _, file := range inventory {
		decision := Revoke
		if observed.Contains(file.Path) {
			decision = Keep
		}
		correlations = append(correlations, Correlation{
			File:     file,
			Decision: decision,
		})
	}
	return correlations
}

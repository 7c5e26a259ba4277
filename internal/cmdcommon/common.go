// Package cmdcommon provides constants shared by command-line entry points.
package cmdcommon

const (
	// DefaultConfigPath is the config file consulted when --config is not given
	DefaultConfigPath = "config.yaml"

	// ConfigPathEnvVar overrides the default config path when set
	ConfigPathEnvVar = "PRIVSWEEP_CONFIG"

	// ExitSuccess is the exit code for a completed run, including runs with
	// per-file revocation failures (those are surfaced in the summary only)
	ExitSuccess = 0

	// ExitFailure is the exit code for configuration errors and unexpected
	// top-level failures
	ExitFailure = 1
)

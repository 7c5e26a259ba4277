package terminal

import (
	"os"
	"strings"
)

// Capabilities provides a unified interface for terminal capability detection
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
}

// Options contains all terminal-related configuration options
type Options struct {
	// DetectorOptions for interactive detection
	DetectorOptions DetectorOptions
}

// DefaultCapabilities implements the Capabilities interface by combining
// interactive detection with environment-based color preferences
type DefaultCapabilities struct {
	interactiveDetector InteractiveDetector
}

// NewCapabilities creates a new Capabilities instance with the given options
func NewCapabilities(options Options) Capabilities {
	return &DefaultCapabilities{
		interactiveDetector: NewInteractiveDetector(options.DetectorOptions),
	}
}

// IsInteractive returns true if the current environment should be treated as interactive
func (c *DefaultCapabilities) IsInteractive() bool {
	return c.interactiveDetector.IsInteractive()
}

// SupportsColor returns true if color output should be enabled.
// Priority order:
//  1. CLICOLOR_FORCE=1 (overrides all other conditions)
//  2. NO_COLOR environment variable
//  3. CLICOLOR environment variable (only applies in interactive mode)
//  4. Terminal capability auto-detection via TERM
func (c *DefaultCapabilities) SupportsColor() bool {
	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !c.IsInteractive() || !termSupportsColor() {
		return false
	}

	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}

	return true
}

// termSupportsColor checks the TERM variable for basic color capability
func termSupportsColor() bool {
	termEnv := os.Getenv("TERM")
	if termEnv == "" || termEnv == "dumb" {
		return false
	}
	return true
}

// isTruthy checks if a string value should be considered "true".
// Supports: "1", "true", "yes" (case insensitive)
func isTruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch lower {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

package logging

import (
	"fmt"
	"os"
	"strings"
)

// ErrorType represents different types of pre-execution errors
type ErrorType string

const (
	// ErrorTypeConfigParsing represents configuration parsing failures
	ErrorTypeConfigParsing ErrorType = "config_parsing_failed"
	// ErrorTypeConfigValidation represents configuration validation failures
	ErrorTypeConfigValidation ErrorType = "config_validation_failed"
	// ErrorTypeLogFileOpen represents log file opening failures
	ErrorTypeLogFileOpen ErrorType = "log_file_open_failed"
	// ErrorTypeInvalidArguments represents invalid command line arguments
	ErrorTypeInvalidArguments ErrorType = "invalid_arguments"
	// ErrorTypeUserInterrupted represents user interruption
	ErrorTypeUserInterrupted ErrorType = "user_interrupted"
	// ErrorTypeSystemError represents unexpected system errors
	ErrorTypeSystemError ErrorType = "system_error"
)

// PreExecutionError represents an error that occurs before the audit
// pipeline runs (or an interruption/unexpected failure around it). These
// errors are the only ones that make the process exit non-zero.
type PreExecutionError struct {
	Type      ErrorType
	Message   string
	Component string
	RunID     string
	Err       error // Wrapped error for better error context preservation
}

// Error implements the error interface
func (e *PreExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v (component: %s, run_id: %s)", e.Type, e.Message, e.Err, e.Component, e.RunID)
	}
	return fmt.Sprintf("%s: %s (component: %s, run_id: %s)", e.Type, e.Message, e.Component, e.RunID)
}

// Is implements error wrapping for errors.Is
func (e *PreExecutionError) Is(target error) bool {
	_, ok := target.(*PreExecutionError)
	return ok
}

// Unwrap implements error wrapping for errors.Unwrap
func (e *PreExecutionError) Unwrap() error {
	return e.Err
}

// HandlePreExecutionError reports a pre-execution error on stderr. It does
// not rely on the slog setup because the error may be the logger failing to
// initialize in the first place.
func HandlePreExecutionError(errorType ErrorType, errorMsg, component, runID string) {
	// Build stderr output atomically to prevent interleaved output
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", errorType)
	if component != "" {
		fmt.Fprintf(&b, "Component: %s\n", component)
	}
	fmt.Fprintf(&b, "Details: %s\n", errorMsg)
	if runID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", runID)
	}

	fmt.Fprint(os.Stderr, b.String())
}

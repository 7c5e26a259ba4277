package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/privsweep/privsweep/internal/terminal"
)

// ErrInvalidLogLevel is returned when the log level string is not recognized
var ErrInvalidLogLevel = errors.New("invalid log level - valid options are: debug, info, warn, error")

// Options configures the logging system for one run.
type Options struct {
	// Level is the log level string from the command line (debug, info, warn, error)
	Level string

	// LogDir, when non-empty, enables the per-run JSON log file
	LogDir string

	// RunID tags every record of this run
	RunID string
}

// ParseLevel converts a level string into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

// Setup installs the default slog logger: a console handler on stderr, plus
// a JSON handler writing to an auto-named per-run file when LogDir is set.
// The returned cleanup function closes the log file and must be called when
// the run finishes.
func Setup(opts Options) (func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	capabilities := terminal.NewCapabilities(terminal.Options{})
	console, err := NewConsoleHandler(ConsoleHandlerOptions{
		Level:        level,
		Writer:       os.Stderr,
		Capabilities: capabilities,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create console handler: %w", err)
	}

	handlers := []slog.Handler{console}
	cleanup := func() {}

	if opts.LogDir != "" {
		file, err := OpenRunLogFile(opts.LogDir, opts.RunID)
		if err != nil {
			return nil, err
		}
		// The file log always records debug level for post-run inspection
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		cleanup = func() { _ = file.Close() }
	}

	logger := slog.New(NewMultiHandler(handlers...)).With("run_id", opts.RunID)
	slog.SetDefault(logger)

	return cleanup, nil
}

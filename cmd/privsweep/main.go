// Package main provides the entry point for the privsweep audit tool. It
// handles command-line arguments, configuration loading, and orchestrates
// the scan/monitor/correlate/revoke pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/privsweep/privsweep/internal/audit"
	"github.com/privsweep/privsweep/internal/audit/config"
	"github.com/privsweep/privsweep/internal/cli"
	"github.com/privsweep/privsweep/internal/cmdcommon"
	"github.com/privsweep/privsweep/internal/common"
	"github.com/privsweep/privsweep/internal/logging"
	"github.com/privsweep/privsweep/internal/terminal"
)

var (
	configPath  = flag.String("config", "", "path to YAML config file (default: "+cmdcommon.DefaultConfigPath+")")
	rootPath    = flag.String("root", config.DefaultRoot, "directory tree to scan for setuid/setgid files")
	monitorTime = flag.Int("monitor-time", config.DefaultMonitorDuration, "seconds to monitor process activity")
	dryRun      = flag.Bool("dry-run", false, "report intended revocations without changing any file")
	logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logDir      = flag.String("log-dir", "", "directory to place the per-run JSON log (auto-named)")
)

func main() {
	// Generate run ID early so even pre-execution errors carry it
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		var preExecErr *logging.PreExecutionError
		if errors.As(err, &preExecErr) {
			logging.HandlePreExecutionError(preExecErr.Type, preExecErr.Message, preExecErr.Component, runID)
		} else {
			logging.HandlePreExecutionError(logging.ErrorTypeSystemError, err.Error(), "main", runID)
		}
		os.Exit(cmdcommon.ExitFailure)
	}
}

func run(runID string) error {
	flag.Parse()

	// Abort cleanly on operator signals; the pipeline refuses to start
	// revocation once this context is cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanup, err := logging.Setup(logging.Options{
		Level:  *logLevel,
		LogDir: *logDir,
		RunID:  runID,
	})
	if err != nil {
		errType := logging.ErrorTypeLogFileOpen
		if errors.Is(err, logging.ErrInvalidLogLevel) {
			errType = logging.ErrorTypeInvalidArguments
		}
		return &logging.PreExecutionError{
			Type:      errType,
			Message:   fmt.Sprintf("Failed to setup logger: %v", err),
			Component: "logging",
			RunID:     runID,
		}
	}
	defer cleanup()

	cfg, err := loadConfig()
	if err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeConfigParsing,
			Message:   fmt.Sprintf("Failed to load config: %v", err),
			Component: "config",
			RunID:     runID,
		}
	}
	applyFlagOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return &logging.PreExecutionError{
			Type:      logging.ErrorTypeConfigValidation,
			Message:   err.Error(),
			Component: "config",
			RunID:     runID,
		}
	}

	// Drive a progress bar through the monitoring window when an operator
	// is watching; in pipes and CI the slog output is enough.
	var onSample func(observed int)
	capabilities := terminal.NewCapabilities(terminal.Options{})
	if capabilities.IsInteractive() {
		samples := int(cfg.MonitorWindow()/cfg.PollInterval()) + 1
		onSample = cli.NewMonitorProgress(os.Stderr, samples)
	}

	pipeline := audit.NewPipeline(audit.Options{
		Config:   cfg,
		OnSample: onSample,
	})

	report, err := pipeline.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return &logging.PreExecutionError{
				Type:      logging.ErrorTypeUserInterrupted,
				Message:   "run interrupted before completion, filesystem untouched beyond completed revocations",
				Component: "audit",
				RunID:     runID,
			}
		}
		return fmt.Errorf("audit pipeline failed: %w", err)
	}

	cli.RenderReport(os.Stdout, report)
	return nil
}

// loadConfig resolves the config path (flag, then environment, then the
// default location) and loads it. A missing file at the default location is
// tolerated: flags and built-in defaults fully describe a run. An
// explicitly requested file that cannot be read is a configuration error.
func loadConfig() (*config.Config, error) {
	path := *configPath
	explicit := path != ""
	if !explicit {
		if envPath := os.Getenv(cmdcommon.ConfigPathEnvVar); envPath != "" {
			path = envPath
			explicit = true
		} else {
			path = cmdcommon.DefaultConfigPath
		}
	}

	cfg, err := config.NewLoader().Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = &config.Config{}
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides lets explicitly set flags win over config file values.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			cfg.Root = *rootPath
		case "monitor-time":
			cfg.MonitorDuration = *monitorTime
		case "dry-run":
			cfg.DryRun = *dryRun
		}
	})
}

// validateConfig runs the boundary validation, including the filesystem
// check that the scan root is an accessible directory.
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	fsys := common.NewDefaultFileSystem()
	isDir, err := fsys.IsDir(cfg.Root)
	if err != nil {
		return fmt.Errorf("cannot access scan root %s: %w", cfg.Root, err)
	}
	if !isDir {
		return fmt.Errorf("%w: %s", config.ErrRootNotDirectory, cfg.Root)
	}
	return nil
}

// Package config provides loading and validation of the audit configuration.
// The configuration enumerates exactly the recognized options; unknown keys
// in the YAML file are rejected at load time so a typo cannot silently turn
// a dry run into a mutating one.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default values applied before validation
const (
	// DefaultRoot is the scan boundary when none is configured
	DefaultRoot = "/"

	// DefaultMonitorDuration is the monitoring window in seconds
	DefaultMonitorDuration = 60

	// DefaultPollIntervalMS is the process table sampling cadence in
	// milliseconds. Short enough to catch most short-lived processes
	// without burning CPU; invocations that start and exit entirely
	// between two samples are still missed (accepted limitation).
	DefaultPollIntervalMS = 100
)

// Error definitions for configuration validation
var (
	ErrNonPositiveDuration   = errors.New("monitor duration must be a positive number of seconds")
	ErrNonPositiveInterval   = errors.New("poll interval must be a positive number of milliseconds")
	ErrIntervalExceedsWindow = errors.New("poll interval must not exceed the monitoring window")
	ErrEmptyRoot             = errors.New("scan root must not be empty")
	ErrRootNotDirectory      = errors.New("scan root is not a directory")
)

// Config holds the recognized audit options. The zero value is not usable;
// call ApplyDefaults before Validate.
type Config struct {
	// Root is the directory tree to scan for setuid/setgid files
	Root string `yaml:"root"`

	// MonitorDuration is the process monitoring window in seconds
	MonitorDuration int `yaml:"monitor_duration"`

	// DryRun reports intended revocations without mutating the filesystem
	DryRun bool `yaml:"dry_run"`

	// PollIntervalMS is the process table sampling cadence in milliseconds
	PollIntervalMS int `yaml:"poll_interval_ms"`
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.MonitorDuration == 0 {
		c.MonitorDuration = DefaultMonitorDuration
	}
	if c.PollIntervalMS == 0 {
		c.PollIntervalMS = DefaultPollIntervalMS
	}
}

// Validate checks the configuration once at the boundary, before the
// pipeline is invoked. A non-positive monitoring duration is rejected here
// so the monitor never sees one.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrEmptyRoot
	}
	if c.MonitorDuration <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveDuration, c.MonitorDuration)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveInterval, c.PollIntervalMS)
	}
	if c.PollInterval() > c.MonitorWindow() {
		return fmt.Errorf("%w: interval %v, window %v", ErrIntervalExceedsWindow, c.PollInterval(), c.MonitorWindow())
	}
	return nil
}

// MonitorWindow returns the monitoring duration as a time.Duration.
func (c *Config) MonitorWindow() time.Duration {
	return time.Duration(c.MonitorDuration) * time.Second
}

// PollInterval returns the sampling cadence as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional .env file, an optional YAML file and DEVBRACKET_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors logs into a rotating file when set.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxTests is the number of test instances reported in population tables.
	MaxTests int `koanf:"max_tests"`

	// TransitionWindows is the number of adjacent instance pairs (1-2, 2-3, ...) analyzed.
	TransitionWindows int `koanf:"transition_windows"`

	// RegionMaxTests caps the instances shown in region tables.
	RegionMaxTests int `koanf:"region_max_tests"`

	// MinDaysBetweenTests skips repeat observations of a movement taken sooner
	// than this many days after the last accepted one. Zero disables the gate.
	MinDaysBetweenTests int `koanf:"min_days_between_tests"`

	// WorkerCount bounds the per-user fan-out.
	WorkerCount int `koanf:"worker_count"`

	// MaxUploadBytes caps POST /reports bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// ReportCacheSize bounds the number of reports kept in memory.
	ReportCacheSize int `koanf:"report_cache_size"`

	// GoalStandards overrides goal values: metric -> sex -> exercise -> goal.
	GoalStandards map[string]map[string]map[string]float64 `koanf:"goal_standards"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxTests:            4,
		TransitionWindows:   2,
		RegionMaxTests:      3,
		MinDaysBetweenTests: 0,
		WorkerCount:         runtime.NumCPU(),
		MaxUploadBytes:      32 << 20,
		ReportCacheSize:     64,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxTests < 2:
		return fmt.Errorf("%w: max_tests must be at least 2, got %d", ErrInvalidConfig, c.MaxTests)
	case c.TransitionWindows < 1 || c.TransitionWindows > c.MaxTests-1:
		return fmt.Errorf("%w: transition_windows must be in [1, %d], got %d",
			ErrInvalidConfig, c.MaxTests-1, c.TransitionWindows)
	case c.RegionMaxTests < 1:
		return fmt.Errorf("%w: region_max_tests must be at least 1, got %d", ErrInvalidConfig, c.RegionMaxTests)
	case c.MinDaysBetweenTests < 0:
		return fmt.Errorf("%w: min_days_between_tests must not be negative", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.ReportCacheSize < 1:
		return fmt.Errorf("%w: report_cache_size must be at least 1", ErrInvalidConfig)
	}
	for metric, bySex := range c.GoalStandards {
		for sex, byExercise := range bySex {
			for exercise, goal := range byExercise {
				if goal <= 0 {
					return fmt.Errorf("%w: goal_standards.%s.%s.%q must be positive",
						ErrInvalidConfig, metric, sex, exercise)
				}
			}
		}
	}
	return nil
}

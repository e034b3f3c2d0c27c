package service

import (
	"github.com/okian/devbracket/internal/config"
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount bounds the per-user fan-out of each report build.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxTests sets the number of test instances in population tables.
func WithMaxTests(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.maxTests = n
		}
	}
}

// WithTransitionWindows sets the number of adjacent instance pairs analyzed.
func WithTransitionWindows(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.windows = n
		}
	}
}

// WithRegionMaxTests caps the instances shown in region tables.
func WithRegionMaxTests(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.regionMaxTests = n
		}
	}
}

// WithMinDaysBetweenTests enables the repeat-test gate. Zero disables it.
func WithMinDaysBetweenTests(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.minDays = days
		}
	}
}

// WithMaxUploadBytes caps the size of an uploaded dataset.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithReportCacheSize bounds the number of reports kept in memory.
func WithReportCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithGoalStandards overrides goal values (metric -> sex -> exercise -> goal).
func WithGoalStandards(std map[string]map[string]map[string]float64) Option {
	return func(s *Service) {
		s.goalStandards = std
	}
}

// WithCatalog replaces the default exercise catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig applies the pipeline settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		for _, opt := range []Option{
			WithWorkerCount(cfg.WorkerCount),
			WithMaxTests(cfg.MaxTests),
			WithTransitionWindows(cfg.TransitionWindows),
			WithRegionMaxTests(cfg.RegionMaxTests),
			WithMinDaysBetweenTests(cfg.MinDaysBetweenTests),
			WithMaxUploadBytes(cfg.MaxUploadBytes),
			WithReportCacheSize(cfg.ReportCacheSize),
			WithGoalStandards(cfg.GoalStandards),
		} {
			opt(s)
		}
	}
}

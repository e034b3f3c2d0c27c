package cohort

import (
	"github.com/okian/devbracket/pkg/logger"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMaxTests sets how many instances population tables cover.
func WithMaxTests(n int) Option {
	return func(a *Aggregator) {
		if n >= 2 {
			a.maxTests = n
		}
	}
}

// WithWindows sets how many adjacent windows (1-2, 2-3, ...) get
// transition matrices and change summaries.
func WithWindows(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 {
			a.windows = n
		}
	}
}

// WithRegionMaxTests sets how many instances region tables cover.
func WithRegionMaxTests(n int) Option {
	return func(a *Aggregator) {
		if n >= 1 {
			a.regionMaxTests = n
		}
	}
}

// WithWorkers bounds the per-user fan-out.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

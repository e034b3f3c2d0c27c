package ingest

import (
	"time"

	"github.com/okian/devbracket/pkg/logger"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxRowErrors caps how many row errors are collected before reading stops.
func WithMaxRowErrors(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxRowErrors = n
		}
	}
}

// WithLocation sets the time zone for timestamps without an offset.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) {
		if loc != nil {
			r.location = loc
		}
	}
}

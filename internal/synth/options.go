package synth

import (
	"time"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/scoring"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithUsers sets the number of generated users.
func WithUsers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.users = n
		}
	}
}

// WithMaxTests caps the number of test sessions per user.
func WithMaxTests(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTests = n
		}
	}
}

// WithSeed makes the output reproducible for a given seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithStart sets the date of the earliest test session.
func WithStart(t time.Time) Option {
	return func(g *Generator) {
		if !t.IsZero() {
			g.start = t
		}
	}
}

// WithIntervalDays sets the nominal spacing between test sessions.
func WithIntervalDays(days int) Option {
	return func(g *Generator) {
		if days > 0 {
			g.intervalDays = days
		}
	}
}

// WithMissingRate sets the probability of a blank metric cell.
func WithMissingRate(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p < 1 {
			g.missingRate = p
		}
	}
}

// WithCatalog sets the movements to generate.
func WithCatalog(c *catalog.Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithGoals sets the goal values generated scores are centred on.
func WithGoals(s *scoring.GoalStandardScorer) Option {
	return func(g *Generator) {
		if s != nil {
			g.goals = s
		}
	}
}

// Package synth generates synthetic cohorts of exercise tests for demos and
// load testing. Output is deterministic for a given seed.
package synth

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/scoring"
)

// Default generation parameters.
const (
	defaultUsers        = 100
	defaultMaxTests     = 4
	defaultIntervalDays = 45
	defaultMissingRate  = 0.03

	// Percent of goal a user starts at, and the per-session gain.
	levelMean      = 68.0
	levelStdDev    = 18.0
	gainMean       = 4.0
	gainStdDev     = 6.0
	sessionNoise   = 6.0
	movementChance = 0.8
	jitterDays     = 7
)

var (
	sports    = []string{"Baseball", "Basketball", "Football", "Soccer", "Track", "Volleyball"} //nolint:gochecknoglobals // fixed sample data
	positions = []string{"Guard", "Forward", "Pitcher", "Midfield", "Sprinter", "Setter"}       //nolint:gochecknoglobals // fixed sample data
)

// Generator produces synthetic observations.
type Generator struct {
	users        int
	maxTests     int
	seed         uint64
	start        time.Time
	intervalDays int
	missingRate  float64
	catalog      *catalog.Catalog
	goals        *scoring.GoalStandardScorer
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		users:        defaultUsers,
		maxTests:     defaultMaxTests,
		seed:         1,
		start:        time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		intervalDays: defaultIntervalDays,
		missingRate:  defaultMissingRate,
		catalog:      catalog.Default(),
		goals:        scoring.NewGoalStandardScorer(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the observations of every user, grouped by user and
// ordered by time within a user.
func (g *Generator) Generate(ctx context.Context) ([]model.Observation, error) {
	src := rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)
	level := distuv.Normal{Mu: levelMean, Sigma: levelStdDev, Src: src}
	gain := distuv.Normal{Mu: gainMean, Sigma: gainStdDev, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: sessionNoise, Src: src}

	var out []model.Observation
	for u := 0; u < g.users; u++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate cohort: %w", err)
		}
		id, err := uuid.NewRandomFromReader(randReader{rng})
		if err != nil {
			return nil, fmt.Errorf("generate user id: %w", err)
		}
		p := profile{
			id:       id.String(),
			sex:      model.Male,
			sport:    sports[rng.IntN(len(sports))],
			position: positions[rng.IntN(len(positions))],
			weight:   math.Round(55 + rng.Float64()*45),
			height:   math.Round(160 + rng.Float64()*35),
			level:    level.Rand(),
			gain:     gain.Rand(),
		}
		if rng.IntN(2) == 0 {
			p.sex = model.Female
		}

		tests := 1 + rng.IntN(g.maxTests)
		for k := 0; k < tests; k++ {
			day := k*g.intervalDays + rng.IntN(2*jitterDays+1) - jitterDays
			if day < 0 {
				day = 0
			}
			ts := g.start.AddDate(0, 0, day)
			for i, mv := range g.catalog.Movements() {
				if rng.Float64() > movementChance {
					continue
				}
				pct := p.level + p.gain*float64(k)
				out = append(out, model.Observation{
					UserID:       p.id,
					Exercise:     mv.Exercise,
					Dominance:    string(mv.Side),
					TS:           ts.Add(time.Duration(i) * time.Minute),
					Power:        g.value(rng, model.Power, p.sex, mv, pct+noise.Rand()),
					Acceleration: g.value(rng, model.Acceleration, p.sex, mv, pct+noise.Rand()),
					Sex:          string(p.sex),
					Sport:        p.sport,
					Position:     p.position,
					Weight:       model.Some(p.weight),
					Height:       model.Some(p.height),
				})
			}
		}
	}
	return out, nil
}

type profile struct {
	id       string
	sex      model.Sex
	sport    string
	position string
	weight   float64
	height   float64
	level    float64
	gain     float64
}

// value converts a percent-of-goal score into a raw measurement.
func (g *Generator) value(rng *rand.Rand, metric model.Metric, sex model.Sex, mv catalog.Movement, pct float64) model.Value {
	if rng.Float64() < g.missingRate {
		return model.Absent()
	}
	goal, ok := g.goals.Goal(metric, sex, mv.Exercise)
	if !ok {
		goal = 100
	}
	if pct < 1 {
		pct = 1
	}
	return model.Some(math.Round(goal*pct) / 100)
}

// randReader feeds uuid generation from the seeded source.
type randReader struct{ rng *rand.Rand }

func (r randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

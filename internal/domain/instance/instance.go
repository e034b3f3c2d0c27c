// Package instance reconstructs per-user test instances from chronological
// observations. Each observed movement is placed in the earliest instance
// that does not hold that movement yet, so instances fill densely from the
// front and no recorded value is ever overwritten.
package instance

import (
	"sort"
	"time"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/model"
)

const day = 24 * time.Hour

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMinDaysBetweenTests skips an observation taken fewer than days after
// the last accepted observation of the same movement. Zero disables the gate.
func WithMinDaysBetweenTests(days int) Option {
	return func(b *Builder) {
		if days > 0 {
			b.minGap = time.Duration(days) * day
		}
	}
}

// Builder assigns observations to test instances.
type Builder struct {
	catalog *catalog.Catalog
	minGap  time.Duration
}

// NewBuilder creates a Builder over the given catalog.
func NewBuilder(cat *catalog.Catalog, opts ...Option) *Builder {
	b := &Builder{catalog: cat}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the catalog the builder assigns against.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

// Stats counts what happened to one user's observations.
type Stats struct {
	Accepted   int `json:"accepted"`
	Incomplete int `json:"incomplete"`
	Unknown    int `json:"unknown_movement"`
	TooSoon    int `json:"too_soon"`
}

// Build assigns one user's observations. The input is not modified; it is
// processed in ascending timestamp order with ties kept in input order.
func (b *Builder) Build(obs []model.Observation) *Matrix {
	sorted := make([]model.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	m := &Matrix{catalog: b.catalog}
	last := make(map[int]time.Time)

	for _, o := range sorted {
		if !o.Complete() {
			m.stats.Incomplete++
			continue
		}
		mv, ok := b.catalog.Resolve(o.Exercise, o.Dominance)
		if !ok {
			m.stats.Unknown++
			continue
		}
		idx, _ := b.catalog.Index(mv)

		prev, seen := last[idx]
		if seen && b.minGap > 0 && o.TS.Sub(prev) < b.minGap {
			m.stats.TooSoon++
			continue
		}
		if seen {
			m.gaps = append(m.gaps, o.TS.Sub(prev).Hours()/24)
		}
		last[idx] = o.TS

		m.slot(idx).assign(idx, o)
		m.stats.Accepted++
	}
	return m
}

// Matrix is one user's movement x instance layout. Instances are ordered
// and gapless; cells never filled hold absent values.
type Matrix struct {
	catalog   *catalog.Catalog
	instances []*Instance
	gaps      []float64
	stats     Stats
}

// slot returns the earliest instance without movement idx, opening a new
// one when every existing instance already holds it.
func (m *Matrix) slot(idx int) *Instance {
	for _, in := range m.instances {
		if !in.assigned[idx] {
			return in
		}
	}
	in := newInstance(m.catalog.Len())
	m.instances = append(m.instances, in)
	return in
}

// Len returns the number of populated instances.
func (m *Matrix) Len() int { return len(m.instances) }

// Instance returns instance k, counting from 0.
func (m *Matrix) Instance(k int) *Instance { return m.instances[k] }

// Instances returns the instances in order.
func (m *Matrix) Instances() []*Instance {
	out := make([]*Instance, len(m.instances))
	copy(out, m.instances)
	return out
}

// Catalog returns the catalog that indexes the matrix rows.
func (m *Matrix) Catalog() *catalog.Catalog { return m.catalog }

// Gaps returns the days between consecutive accepted observations of the
// same movement.
func (m *Matrix) Gaps() []float64 {
	out := make([]float64, len(m.gaps))
	copy(out, m.gaps)
	return out
}

// Stats returns the per-row outcome counts.
func (m *Matrix) Stats() Stats { return m.stats }

// Instance is one test instance: a partial mapping from movement to a
// (power, acceleration) pair, indexed by catalog position.
type Instance struct {
	assigned     []bool
	taken        []time.Time
	power        []model.Value
	acceleration []model.Value
	size         int
}

func newInstance(n int) *Instance {
	return &Instance{
		assigned:     make([]bool, n),
		taken:        make([]time.Time, n),
		power:        make([]model.Value, n),
		acceleration: make([]model.Value, n),
	}
}

func (in *Instance) assign(idx int, o model.Observation) {
	in.assigned[idx] = true
	in.taken[idx] = o.TS
	in.power[idx] = o.Power
	in.acceleration[idx] = o.Acceleration
	in.size++
}

// Has reports whether the movement at catalog index idx is recorded.
func (in *Instance) Has(idx int) bool { return in.assigned[idx] }

// Size returns the number of recorded movements.
func (in *Instance) Size() int { return in.size }

// Taken returns when the movement at idx was recorded.
func (in *Instance) Taken(idx int) (time.Time, bool) {
	return in.taken[idx], in.assigned[idx]
}

// Value returns the metric value recorded for the movement at idx.
func (in *Instance) Value(metric model.Metric, idx int) model.Value {
	switch metric {
	case model.Power:
		return in.power[idx]
	case model.Acceleration:
		return in.acceleration[idx]
	default:
		return model.Absent()
	}
}

// Column returns a copy of the metric's values for every catalog movement.
func (in *Instance) Column(metric model.Metric) []model.Value {
	out := make([]model.Value, len(in.assigned))
	for i := range out {
		out[i] = in.Value(metric, i)
	}
	return out
}

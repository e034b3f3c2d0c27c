// Package development turns a user's instance matrix into development
// scores, capped per-instance averages and brackets.
package development

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/devbracket/internal/domain/bracket"
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/scoring"
)

// Cap is the ceiling applied to development scores before averaging.
const Cap = 100.0

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithScheme replaces the default bracket scheme.
func WithScheme(s bracket.Scheme) Option {
	return func(c *Classifier) { c.scheme = s }
}

// Classifier scores and brackets user matrices.
type Classifier struct {
	scorer scoring.Scorer
	scheme bracket.Scheme
}

// NewClassifier creates a Classifier around the scoring collaborator.
func NewClassifier(scorer scoring.Scorer, opts ...Option) *Classifier {
	c := &Classifier{scorer: scorer, scheme: bracket.DefaultScheme()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scheme returns the bracket scheme in use.
func (c *Classifier) Scheme() bracket.Scheme { return c.scheme }

// Score converts one raw value. Absent stays absent.
func (c *Classifier) Score(v model.Value, mv catalog.Movement, sex model.Sex, metric model.Metric) model.Value {
	raw, ok := v.Get()
	if !ok {
		return model.Absent()
	}
	s, ok := c.scorer.Score(scoring.Input{Value: raw, Movement: mv, Sex: sex, Metric: metric})
	if !ok {
		return model.Absent()
	}
	return model.Some(s)
}

// Classify returns the bracket for a capped average. Absent averages have
// no bracket.
func (c *Classifier) Classify(avg model.Value) (bracket.Bracket, bool) {
	v, ok := avg.Get()
	if !ok {
		return 0, false
	}
	return c.scheme.Classify(v)
}

// Develop scores every cell of m and summarizes each instance.
func (c *Classifier) Develop(m *instance.Matrix, sex model.Sex) *Profile {
	cat := m.Catalog()
	p := &Profile{catalog: cat, instances: make([]Instance, m.Len())}
	for k, in := range m.Instances() {
		dev := Instance{
			Power:        make([]model.Value, cat.Len()),
			Acceleration: make([]model.Value, cat.Len()),
		}
		for idx := 0; idx < cat.Len(); idx++ {
			if !in.Has(idx) {
				continue
			}
			mv := cat.Movement(idx)
			dev.Power[idx] = c.Score(in.Value(model.Power, idx), mv, sex, model.Power)
			dev.Acceleration[idx] = c.Score(in.Value(model.Acceleration, idx), mv, sex, model.Acceleration)
		}
		dev.Summary = c.summarize(dev)
		p.instances[k] = dev
	}
	return p
}

func (c *Classifier) summarize(dev Instance) Summary {
	s := Summary{
		Power:        c.metric(CappedMean(dev.Power)),
		Acceleration: c.metric(CappedMean(dev.Acceleration)),
	}
	var parts []model.Value
	if !s.Power.Average.IsAbsent() {
		parts = append(parts, s.Power.Average)
	}
	if !s.Acceleration.Average.IsAbsent() {
		parts = append(parts, s.Acceleration.Average)
	}
	s.Overall = mean(parts)
	return s
}

func (c *Classifier) metric(avg model.Value) MetricSummary {
	b, ok := c.Classify(avg)
	ms := MetricSummary{Average: avg}
	if ok {
		ms.Bracket = &b
	}
	return ms
}

// MetricSummary is one metric's capped average and bracket for an instance.
type MetricSummary struct {
	Average model.Value      `json:"average"`
	Bracket *bracket.Bracket `json:"bracket"`
}

// Classified returns the bracket, if any.
func (ms MetricSummary) Classified() (bracket.Bracket, bool) {
	if ms.Bracket == nil {
		return 0, false
	}
	return *ms.Bracket, true
}

// Summary aggregates one instance. Overall is the mean of the present
// metric averages.
type Summary struct {
	Power        MetricSummary `json:"power"`
	Acceleration MetricSummary `json:"acceleration"`
	Overall      model.Value   `json:"overall"`
}

// Metric returns the summary of metric.
func (s Summary) Metric(metric model.Metric) MetricSummary {
	if metric == model.Acceleration {
		return s.Acceleration
	}
	return s.Power
}

// Instance holds uncapped development scores indexed by catalog position.
type Instance struct {
	Power        []model.Value
	Acceleration []model.Value
	Summary      Summary
}

// Scores returns the scores of metric.
func (in Instance) Scores(metric model.Metric) []model.Value {
	if metric == model.Acceleration {
		return in.Acceleration
	}
	return in.Power
}

// Profile is one user's development view.
type Profile struct {
	catalog   *catalog.Catalog
	instances []Instance
}

// Len returns the number of instances.
func (p *Profile) Len() int { return len(p.instances) }

// Instance returns instance k, counting from 0.
func (p *Profile) Instance(k int) Instance { return p.instances[k] }

// Summary returns the summary of instance k.
func (p *Profile) Summary(k int) Summary { return p.instances[k].Summary }

// Score returns the development score of the movement at idx in instance k.
func (p *Profile) Score(metric model.Metric, k, idx int) model.Value {
	return p.instances[k].Scores(metric)[idx]
}

// Average returns the capped mean of metric over the movements at indices
// in instance k. Absent when none of them has a score.
func (p *Profile) Average(metric model.Metric, k int, indices []int) model.Value {
	scores := p.instances[k].Scores(metric)
	vals := make([]model.Value, 0, len(indices))
	for _, idx := range indices {
		vals = append(vals, scores[idx])
	}
	return CappedMean(vals)
}

// CappedMean averages min(v, Cap) over present values. Absent values are
// skipped; the result is absent when nothing is present.
func CappedMean(vals []model.Value) model.Value {
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Get(); ok {
			xs = append(xs, math.Min(f, Cap))
		}
	}
	if len(xs) == 0 {
		return model.Absent()
	}
	return model.Some(stat.Mean(xs, nil))
}

func mean(vals []model.Value) model.Value {
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Get(); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return model.Absent()
	}
	return model.Some(stat.Mean(xs, nil))
}

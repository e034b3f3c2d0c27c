// Package region re-slices user development profiles by body region and
// averages them across a cohort. A user's contribution to a cell is the
// mean over that user's movements in the region, so every user weighs the
// same regardless of how many regional movements they completed.
package region

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/development"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/transition"
)

const (
	defaultMaxTests = 3
	defaultWindows  = 2
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithMaxTests sets how many instances the tables cover.
func WithMaxTests(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxTests = n
		}
	}
}

// WithWindows sets how many adjacent windows improvement thresholds cover.
func WithWindows(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.windows = n
		}
	}
}

// Aggregator builds region and exercise tables.
type Aggregator struct {
	catalog  *catalog.Catalog
	maxTests int
	windows  int
}

// New creates an Aggregator over the catalog.
func New(cat *catalog.Catalog, opts ...Option) *Aggregator {
	a := &Aggregator{catalog: cat, maxTests: defaultMaxTests, windows: defaultWindows}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// User is one user's profile.
type User struct {
	ID      string
	Profile *development.Profile
}

// Table holds per-instance cohort averages for a region or movement.
// Averages[metric][k] is absent when no user contributed to instance k+1.
type Table struct {
	Name     string                         `json:"name"`
	Region   string                         `json:"region,omitempty"`
	Averages map[model.Metric][]model.Value `json:"averages"`
	Users    map[model.Metric][]int         `json:"users"`
}

// Underperformer is a user whose regional change fell below the cohort mean.
type Underperformer struct {
	UserID string  `json:"user_id"`
	Change float64 `json:"change"`
}

// Improvement is the mean regional change across a window, with the users
// below it.
type Improvement struct {
	Region          string            `json:"region"`
	Window          transition.Window `json:"window"`
	Metric          model.Metric      `json:"metric"`
	Threshold       model.Value       `json:"threshold"`
	Users           int               `json:"users"`
	Underperformers []Underperformer  `json:"underperformers"`
}

// Report is the regional view of a cohort.
type Report struct {
	Regions      []Table       `json:"regions"`
	Exercises    []Table       `json:"exercises"`
	Improvements []Improvement `json:"improvements"`
}

// Aggregate builds the regional report. Users should be the multi-instance
// population; the result does not depend on their order.
func (a *Aggregator) Aggregate(users []User) *Report {
	users = sortedUsers(users)
	r := &Report{}
	for _, name := range a.catalog.Regions() {
		r.Regions = append(r.Regions, a.regionTable(name, users))
	}
	for idx, mv := range a.catalog.Movements() {
		r.Exercises = append(r.Exercises, a.exerciseTable(idx, mv, users))
	}
	for _, name := range a.catalog.Regions() {
		for _, w := range transition.Windows(a.windows) {
			for _, metric := range model.Metrics {
				r.Improvements = append(r.Improvements, a.improvement(name, w, metric, users))
			}
		}
	}
	return r
}

func (a *Aggregator) regionTable(name string, users []User) Table {
	indices := a.catalog.RegionIndices(name)
	return a.table(name, "", users, func(p *development.Profile, metric model.Metric, k int) model.Value {
		return p.Average(metric, k, indices)
	})
}

func (a *Aggregator) exerciseTable(idx int, mv catalog.Movement, users []User) Table {
	indices := []int{idx}
	return a.table(mv.String(), a.catalog.RegionOf(mv), users, func(p *development.Profile, metric model.Metric, k int) model.Value {
		return p.Average(metric, k, indices)
	})
}

type cellFunc func(p *development.Profile, metric model.Metric, k int) model.Value

func (a *Aggregator) table(name, region string, users []User, cell cellFunc) Table {
	t := Table{
		Name:     name,
		Region:   region,
		Averages: make(map[model.Metric][]model.Value, len(model.Metrics)),
		Users:    make(map[model.Metric][]int, len(model.Metrics)),
	}
	for _, metric := range model.Metrics {
		avgs := make([]model.Value, a.maxTests)
		counts := make([]int, a.maxTests)
		for k := 0; k < a.maxTests; k++ {
			var xs []float64
			for _, u := range users {
				if k >= u.Profile.Len() {
					continue
				}
				if v, ok := cell(u.Profile, metric, k).Get(); ok {
					xs = append(xs, v)
				}
			}
			counts[k] = len(xs)
			if len(xs) > 0 {
				avgs[k] = model.Some(stat.Mean(xs, nil))
			}
		}
		t.Averages[metric] = avgs
		t.Users[metric] = counts
	}
	return t
}

func (a *Aggregator) improvement(name string, w transition.Window, metric model.Metric, users []User) Improvement {
	indices := a.catalog.RegionIndices(name)
	imp := Improvement{Region: name, Window: w, Metric: metric, Underperformers: []Underperformer{}}

	var changes []Underperformer
	for _, u := range users {
		if w.To > u.Profile.Len() {
			continue
		}
		before, okB := u.Profile.Average(metric, w.From-1, indices).Get()
		after, okA := u.Profile.Average(metric, w.To-1, indices).Get()
		if !okB || !okA {
			continue
		}
		changes = append(changes, Underperformer{UserID: u.ID, Change: after - before})
	}
	imp.Users = len(changes)
	if len(changes) == 0 {
		return imp
	}

	xs := make([]float64, len(changes))
	for i, c := range changes {
		xs[i] = c.Change
	}
	threshold := stat.Mean(xs, nil)
	imp.Threshold = model.Some(threshold)

	for _, c := range changes {
		if c.Change < threshold {
			imp.Underperformers = append(imp.Underperformers, c)
		}
	}
	sort.SliceStable(imp.Underperformers, func(i, j int) bool {
		return imp.Underperformers[i].Change < imp.Underperformers[j].Change
	})
	return imp
}

func sortedUsers(users []User) []User {
	out := make([]User, len(users))
	copy(out, users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

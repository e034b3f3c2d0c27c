// Package cohort runs the per-user pipeline (instances, development,
// brackets) over a whole dataset and accumulates cohort tables. Users are
// processed independently and reduced in user ID order, so the same input
// always yields the same report.
package cohort

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/devbracket/internal/domain/bracket"
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/development"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/region"
	"github.com/okian/devbracket/internal/domain/transition"
	"github.com/okian/devbracket/pkg/logger"
)

// Default aggregation configuration constants.
const (
	defaultMaxTests       = 4
	defaultWindows        = 2
	defaultRegionMaxTests = 3
)

// Aggregator builds cohort reports.
type Aggregator struct {
	catalog    *catalog.Catalog
	builder    *instance.Builder
	classifier *development.Classifier

	maxTests       int
	windows        int
	regionMaxTests int
	workers        int

	logger logger.Logger
}

// New creates an Aggregator from the instance builder and classifier.
func New(builder *instance.Builder, classifier *development.Classifier, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalog:        builder.Catalog(),
		builder:        builder,
		classifier:     classifier,
		maxTests:       defaultMaxTests,
		windows:        defaultWindows,
		regionMaxTests: defaultRegionMaxTests,
		workers:        runtime.NumCPU(),
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.windows > a.maxTests-1 {
		a.windows = a.maxTests - 1
	}
	return a
}

// Catalog returns the catalog reports are indexed by.
func (a *Aggregator) Catalog() *catalog.Catalog { return a.catalog }

// userResult is the independent per-user outcome of the fan-out.
type userResult struct {
	id      string
	rows    int
	sex     model.Sex
	valid   bool
	matrix  *instance.Matrix
	profile *development.Profile
}

// Aggregate processes every user in obs and reduces the results into a
// report. The only error is cancellation of ctx.
func (a *Aggregator) Aggregate(ctx context.Context, obs []model.Observation) (*Report, error) {
	ids, byUser := groupByUser(obs)
	results := make([]userResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyze(id, byUser[id])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate cohort: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregate cohort: %w", err)
	}

	return a.reduce(results), nil
}

// Analyze runs the per-user pipeline for a single user's observations.
func (a *Aggregator) Analyze(userID string, obs []model.Observation) *UserReport {
	return a.userReport(a.analyze(userID, obs))
}

func (a *Aggregator) analyze(id string, rows []model.Observation) userResult {
	res := userResult{id: id, rows: len(rows)}
	if len(rows) == 0 {
		return res
	}
	// Sex comes from the earliest row, whatever the input order.
	sorted := make([]model.Observation, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS.Before(sorted[j].TS) })

	res.sex, res.valid = model.ParseSex(sorted[0].Sex)
	if !res.valid {
		a.logger.Debug(context.Background(), "user excluded: unrecognized sex",
			logger.String("user_id", id), logger.String("sex", sorted[0].Sex))
		return res
	}
	res.matrix = a.builder.Build(sorted)
	res.profile = a.classifier.Develop(res.matrix, res.sex)
	a.logger.Debug(context.Background(), "user analyzed",
		logger.String("user_id", id), logger.Int("tests", res.matrix.Len()))
	return res
}

func groupByUser(obs []model.Observation) ([]string, map[string][]model.Observation) {
	byUser := make(map[string][]model.Observation)
	for _, o := range obs {
		byUser[o.UserID] = append(byUser[o.UserID], o)
	}
	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, byUser
}

// reduce folds user results, in ID order, into the report.
func (a *Aggregator) reduce(results []userResult) *Report {
	r := newReport(a.maxTests, a.windows)
	var (
		multi    []region.User
		gaps     []float64
		single   = make(map[model.Metric][]float64, len(model.Metrics))
		overall  []float64
		records  = make([]map[model.Metric][]transition.Record, a.windows)
		deltas   = make([]map[model.Metric][]float64, a.windows)
		excluded []string
	)
	for w := range records {
		records[w] = make(map[model.Metric][]transition.Record, len(model.Metrics))
		deltas[w] = make(map[model.Metric][]float64, len(model.Metrics))
	}

	for _, res := range results {
		r.Users.Total++
		r.Rows.Total += res.rows
		r.users[res.id] = a.userReport(res)
		r.userIDs = append(r.userIDs, res.id)

		if !res.valid {
			r.Users.Excluded++
			excluded = append(excluded, res.id)
			continue
		}
		st := res.matrix.Stats()
		r.Rows.Accepted += st.Accepted
		r.Rows.Incomplete += st.Incomplete
		r.Rows.Unknown += st.Unknown
		r.Rows.TooSoon += st.TooSoon
		gaps = append(gaps, res.matrix.Gaps()...)

		p := res.profile
		switch {
		case p.Len() == 0:
			r.Users.Empty++
		case p.Len() == 1:
			r.Users.SingleTest++
			s := p.Summary(0)
			for _, metric := range model.Metrics {
				ms := s.Metric(metric)
				if b, ok := ms.Classified(); ok {
					r.SingleTest.Distribution[metric][b]++
				}
				if v, ok := ms.Average.Get(); ok {
					single[metric] = append(single[metric], v)
				}
			}
			if v, ok := s.Overall.Get(); ok {
				overall = append(overall, v)
			}
		default:
			r.Users.MultiTest++
			multi = append(multi, region.User{ID: res.id, Profile: p})
			a.countPopulation(r, p)
			for w, win := range transition.Windows(a.windows) {
				if win.To > p.Len() {
					break
				}
				from, to := p.Summary(win.From-1), p.Summary(win.To-1)
				for _, metric := range model.Metrics {
					fb, okF := from.Metric(metric).Classified()
					tb, okT := to.Metric(metric).Classified()
					if okF && okT {
						records[w][metric] = append(records[w][metric], transition.Record{From: fb, To: tb})
					}
					fv, okF := from.Metric(metric).Average.Get()
					tv, okT := to.Metric(metric).Average.Get()
					if okF && okT {
						deltas[w][metric] = append(deltas[w][metric], tv-fv)
					}
				}
			}
		}
	}

	r.SingleTest.Users = r.Users.SingleTest
	for _, metric := range model.Metrics {
		r.SingleTest.Average[metric] = mean(single[metric])
	}
	r.SingleTest.Overall = mean(overall)

	for w := range r.Transitions {
		for _, metric := range model.Metrics {
			r.Transitions[w].Matrices[metric] = transition.Build(records[w][metric])
			r.Changes[w].Metrics[metric] = summarize(deltas[w][metric])
		}
	}

	r.DaysBetweenTests = summarize(gaps)
	r.MeanDaysBetweenTests = r.DaysBetweenTests.Mean
	r.Regions = region.New(a.catalog,
		region.WithMaxTests(a.regionMaxTests),
		region.WithWindows(min(a.windows, a.regionMaxTests-1)),
	).Aggregate(multi)

	if len(excluded) > 0 {
		a.logger.Info(context.Background(), "users excluded from classification",
			logger.Int("count", len(excluded)))
	}
	return r
}

// countPopulation adds one count per classified instance per metric and
// one Total Users count per instance with any classified metric.
func (a *Aggregator) countPopulation(r *Report, p *development.Profile) {
	for k := 0; k < p.Len() && k < a.maxTests; k++ {
		s := p.Summary(k)
		classified := false
		for _, metric := range model.Metrics {
			if b, ok := s.Metric(metric).Classified(); ok {
				r.Population[metric].Counts[b][k]++
				classified = true
			}
		}
		if classified {
			for _, metric := range model.Metrics {
				r.Population[metric].TotalUsers[k]++
			}
		}
	}
}

func (a *Aggregator) userReport(res userResult) *UserReport {
	u := &UserReport{UserID: res.id, Sex: res.sex, Excluded: !res.valid, Instances: []UserInstance{}}
	if !res.valid {
		return u
	}
	u.Stats = res.matrix.Stats()
	u.Tests = res.matrix.Len()
	u.Movements = make([]string, a.catalog.Len())
	for i, mv := range a.catalog.Movements() {
		u.Movements[i] = mv.String()
	}
	for k, in := range res.matrix.Instances() {
		dev := res.profile.Instance(k)
		ui := UserInstance{
			Number:  k + 1,
			Raw:     make(map[model.Metric][]model.Value, len(model.Metrics)),
			Scores:  make(map[model.Metric][]model.Value, len(model.Metrics)),
			Summary: dev.Summary,
		}
		for _, metric := range model.Metrics {
			ui.Raw[metric] = in.Column(metric)
			scores := make([]model.Value, len(dev.Scores(metric)))
			copy(scores, dev.Scores(metric))
			ui.Scores[metric] = scores
		}
		u.Instances = append(u.Instances, ui)
	}
	return u
}

// bracketRows returns a zeroed bracket x n table.
func bracketRows(n int) [][]int {
	rows := make([][]int, bracket.Count)
	for i := range rows {
		rows[i] = make([]int, n)
	}
	return rows
}

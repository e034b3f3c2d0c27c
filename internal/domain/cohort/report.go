package cohort

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/okian/devbracket/internal/domain/bracket"
	"github.com/okian/devbracket/internal/domain/development"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/region"
	"github.com/okian/devbracket/internal/domain/transition"
)

// Report is the cohort-level result of one aggregation.
type Report struct {
	Users                UserCounts                   `json:"users"`
	Rows                 RowCounts                    `json:"rows"`
	Brackets             []bracket.Bracket            `json:"brackets"`
	Population           map[model.Metric]*Population `json:"population"`
	SingleTest           SingleTest                   `json:"single_test"`
	Transitions          []WindowTransitions          `json:"transitions"`
	Changes              []WindowChanges              `json:"changes"`
	DaysBetweenTests     Summary                      `json:"days_between_tests"`
	MeanDaysBetweenTests float64                      `json:"mean_days_between_tests"`
	Regions              *region.Report               `json:"regions"`

	users   map[string]*UserReport
	userIDs []string
}

// UserCounts splits users by outcome.
type UserCounts struct {
	Total      int `json:"total"`
	Excluded   int `json:"excluded"`
	Empty      int `json:"empty"`
	SingleTest int `json:"single_test"`
	MultiTest  int `json:"multi_test"`
}

// RowCounts splits input rows by outcome. Rows of excluded users are only
// counted in Total.
type RowCounts struct {
	Total      int `json:"total"`
	Accepted   int `json:"accepted"`
	Incomplete int `json:"incomplete"`
	Unknown    int `json:"unknown_movement"`
	TooSoon    int `json:"too_soon"`
}

// Population counts multi-test users per bracket per instance.
// Counts[b][k] is the number of users in bracket b at instance k+1.
type Population struct {
	Counts     [][]int `json:"counts"`
	TotalUsers []int   `json:"total_users"`
}

// SingleTest describes users with exactly one instance.
type SingleTest struct {
	Users        int                      `json:"users"`
	Distribution map[model.Metric][]int   `json:"distribution"`
	Average      map[model.Metric]float64 `json:"average"`
	Overall      float64                  `json:"overall"`
}

// WindowTransitions holds the per-metric transition matrices of a window.
type WindowTransitions struct {
	Window   transition.Window                   `json:"window"`
	Matrices map[model.Metric]*transition.Matrix `json:"matrices"`
}

// WindowChanges summarizes capped average deltas across a window.
type WindowChanges struct {
	Window  transition.Window        `json:"window"`
	Metrics map[model.Metric]Summary `json:"metrics"`
}

// Summary describes a sample. Every field is 0 for an empty sample.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// UserReport is the individual view of one user.
type UserReport struct {
	UserID    string         `json:"user_id"`
	Sex       model.Sex      `json:"sex,omitempty"`
	Excluded  bool           `json:"excluded"`
	Tests     int            `json:"tests"`
	Stats     instance.Stats `json:"rows"`
	Movements []string       `json:"movements,omitempty"`
	Instances []UserInstance `json:"instances"`
}

// UserInstance is one instance of a user: raw values and development
// scores indexed like Movements.
type UserInstance struct {
	Number  int                            `json:"number"`
	Raw     map[model.Metric][]model.Value `json:"raw"`
	Scores  map[model.Metric][]model.Value `json:"scores"`
	Summary development.Summary            `json:"summary"`
}

func newReport(maxTests, windows int) *Report {
	r := &Report{
		Brackets:   bracket.All(),
		Population: make(map[model.Metric]*Population, len(model.Metrics)),
		SingleTest: SingleTest{
			Distribution: make(map[model.Metric][]int, len(model.Metrics)),
			Average:      make(map[model.Metric]float64, len(model.Metrics)),
		},
		users: make(map[string]*UserReport),
	}
	for _, metric := range model.Metrics {
		r.Population[metric] = &Population{Counts: bracketRows(maxTests), TotalUsers: make([]int, maxTests)}
		r.SingleTest.Distribution[metric] = make([]int, bracket.Count)
	}
	for _, w := range transition.Windows(windows) {
		r.Transitions = append(r.Transitions, WindowTransitions{
			Window:   w,
			Matrices: make(map[model.Metric]*transition.Matrix, len(model.Metrics)),
		})
		r.Changes = append(r.Changes, WindowChanges{
			Window:  w,
			Metrics: make(map[model.Metric]Summary, len(model.Metrics)),
		})
	}
	return r
}

// User returns the individual report of a user.
func (r *Report) User(id string) (*UserReport, bool) {
	u, ok := r.users[id]
	return u, ok
}

// UserIDs returns every user ID in sorted order.
func (r *Report) UserIDs() []string {
	out := make([]string, len(r.userIDs))
	copy(out, r.userIDs)
	sort.Strings(out)
	return out
}

// Transition returns the matrix of metric for window w, counting from 0.
func (r *Report) Transition(w int, metric model.Metric) *transition.Matrix {
	return r.Transitions[w].Matrices[metric]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(xs)
	s := Summary{N: len(xs)}
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.StdDev, _ = data.StandardDeviation()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	return s
}

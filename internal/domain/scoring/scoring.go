// Package scoring defines the contract for turning a raw metric value into a
// development score: the percentage of the goal standard reached.
package scoring

import (
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/model"
)

const percent = 100

// Input abstracts the observation fields needed for scoring.
type Input struct {
	Value    float64
	Movement catalog.Movement
	Sex      model.Sex
	Metric   model.Metric
}

// Scorer computes a development score. ok is false when no score can be
// derived; implementations must be deterministic and free of side effects.
type Scorer interface {
	Score(in Input) (score float64, ok bool)
}

// ScoreFunc adapts a plain function to Scorer.
type ScoreFunc func(in Input) (float64, bool)

// Score calls f.
func (f ScoreFunc) Score(in Input) (float64, bool) { return f(in) }

// Standards maps metric -> sex -> exercise name -> goal value. Goals are
// shared by every side of an exercise.
type Standards map[model.Metric]map[model.Sex]map[string]float64

// Option applies a configuration option to the GoalStandardScorer.
type Option func(*GoalStandardScorer)

// WithStandards overrides individual goal values. Non-positive goals are ignored.
func WithStandards(std Standards) Option {
	return func(s *GoalStandardScorer) {
		for metric, bySex := range std {
			for sex, byExercise := range bySex {
				for exercise, goal := range byExercise {
					s.set(metric, sex, exercise, goal)
				}
			}
		}
	}
}

// WithStandardsFromConfig overrides goal values from a configuration map
// keyed by metric, sex and exercise name. Unknown sex labels are ignored.
func WithStandardsFromConfig(cfg map[string]map[string]map[string]float64) Option {
	return func(s *GoalStandardScorer) {
		for metric, bySex := range cfg {
			for rawSex, byExercise := range bySex {
				sex, ok := model.ParseSex(rawSex)
				if !ok {
					continue
				}
				for exercise, goal := range byExercise {
					s.set(model.Metric(metric), sex, exercise, goal)
				}
			}
		}
	}
}

// GoalStandardScorer scores value / goal * 100.
type GoalStandardScorer struct {
	goals Standards
}

// NewGoalStandardScorer creates a scorer seeded with DefaultStandards.
func NewGoalStandardScorer(opts ...Option) *GoalStandardScorer {
	s := &GoalStandardScorer{goals: make(Standards)}
	WithStandards(DefaultStandards())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GoalStandardScorer) set(metric model.Metric, sex model.Sex, exercise string, goal float64) {
	if goal <= 0 {
		return
	}
	bySex, ok := s.goals[metric]
	if !ok {
		bySex = make(map[model.Sex]map[string]float64)
		s.goals[metric] = bySex
	}
	byExercise, ok := bySex[sex]
	if !ok {
		byExercise = make(map[string]float64)
		bySex[sex] = byExercise
	}
	byExercise[exercise] = goal
}

// Goal returns the goal standard for the exercise, sex and metric.
func (s *GoalStandardScorer) Goal(metric model.Metric, sex model.Sex, exercise string) (float64, bool) {
	goal, ok := s.goals[metric][sex][exercise]
	return goal, ok
}

// Score computes the percentage of the goal reached. Inputs without a goal
// standard have no score.
func (s *GoalStandardScorer) Score(in Input) (float64, bool) {
	goal, ok := s.Goal(in.Metric, in.Sex, in.Movement.Exercise)
	if !ok {
		return 0, false
	}
	return in.Value / goal * percent, true
}

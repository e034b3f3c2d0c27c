package scoring_test

import (
	"testing"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGoalStandardScorer_Score(t *testing.T) {
	Convey("Given a goal standard scorer with defaults", t, func() {
		scorer := scoring.NewGoalStandardScorer()
		bound := catalog.Movement{Exercise: "Lateral Bound", Side: catalog.Dominant}

		Convey("When scoring a value at the goal", func() {
			score, ok := scorer.Score(scoring.Input{Value: 1400, Movement: bound, Sex: model.Male, Metric: model.Power})

			Convey("Then the score is 100", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 100)
			})
		})

		Convey("When scoring past the goal", func() {
			score, ok := scorer.Score(scoring.Input{Value: 1900, Movement: bound, Sex: model.Female, Metric: model.Power})

			Convey("Then the score is not capped", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 200)
			})
		})

		Convey("When both sides of an exercise are scored", func() {
			nd := bound
			nd.Side = catalog.NonDominant
			a, _ := scorer.Score(scoring.Input{Value: 10, Movement: bound, Sex: model.Male, Metric: model.Acceleration})
			b, _ := scorer.Score(scoring.Input{Value: 10, Movement: nd, Sex: model.Male, Metric: model.Acceleration})

			Convey("Then they share the goal", func() {
				So(a, ShouldEqual, 50)
				So(b, ShouldEqual, a)
			})
		})

		Convey("When no goal exists", func() {
			_, ok := scorer.Score(scoring.Input{Value: 10, Movement: catalog.Movement{Exercise: "Squat"}, Sex: model.Male, Metric: model.Power})

			Convey("Then there is no score", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When scoring is monotonic in the raw value", func() {
			prev := -1.0
			for v := 0.0; v <= 3000; v += 250 {
				s, ok := scorer.Score(scoring.Input{Value: v, Movement: bound, Sex: model.Male, Metric: model.Power})
				So(ok, ShouldBeTrue)
				So(s, ShouldBeGreaterThan, prev)
				prev = s
			}
		})
	})
}

func TestGoalStandardScorer_Options(t *testing.T) {
	Convey("Given goal overrides", t, func() {
		Convey("When set from typed standards", func() {
			scorer := scoring.NewGoalStandardScorer(scoring.WithStandards(scoring.Standards{
				model.Power: {model.Male: {"Squat": 500, "Lateral Bound": -1}},
			}))

			Convey("Then new goals are added and non-positive ones ignored", func() {
				goal, ok := scorer.Goal(model.Power, model.Male, "Squat")
				So(ok, ShouldBeTrue)
				So(goal, ShouldEqual, 500)
				goal, _ = scorer.Goal(model.Power, model.Male, "Lateral Bound")
				So(goal, ShouldEqual, 1400)
			})
		})

		Convey("When set from configuration", func() {
			scorer := scoring.NewGoalStandardScorer(scoring.WithStandardsFromConfig(map[string]map[string]map[string]float64{
				"acceleration": {
					"FEMALE":  {"Lateral Bound": 10},
					"unknown": {"Lateral Bound": 99},
				},
			}))

			Convey("Then sex labels are normalized and unknown ones dropped", func() {
				goal, ok := scorer.Goal(model.Acceleration, model.Female, "Lateral Bound")
				So(ok, ShouldBeTrue)
				So(goal, ShouldEqual, 10)
				_, ok = scorer.Goal(model.Acceleration, model.Sex("unknown"), "Lateral Bound")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestScoreFunc(t *testing.T) {
	Convey("Given a plain scoring function", t, func() {
		var s scoring.Scorer = scoring.ScoreFunc(func(in scoring.Input) (float64, bool) {
			return in.Value * 2, in.Value >= 0
		})

		Convey("Then it satisfies Scorer", func() {
			v, ok := s.Score(scoring.Input{Value: 21})
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 42)
			_, ok = s.Score(scoring.Input{Value: -1})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDefaultStandardsCoverCatalog(t *testing.T) {
	Convey("Given the default catalog and standards", t, func() {
		scorer := scoring.NewGoalStandardScorer()
		c := catalog.Default()

		Convey("Then every movement has a goal for each metric and sex", func() {
			for _, m := range c.Movements() {
				for _, metric := range model.Metrics {
					for _, sex := range []model.Sex{model.Male, model.Female} {
						_, ok := scorer.Goal(metric, sex, m.Exercise)
						So(ok, ShouldBeTrue)
					}
				}
			}
		})
	})
}

package development_test

import (
	"testing"
	"time"

	"github.com/okian/devbracket/internal/domain/bracket"
	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/development"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// identity scores the raw value as-is, except for Chest Press which has no standard.
var identity = scoring.ScoreFunc(func(in scoring.Input) (float64, bool) {
	if in.Movement.Exercise == "Chest Press (One Hand)" {
		return 0, false
	}
	return in.Value, true
})

func row(exercise, side string, day int, power, accel model.Value) model.Observation {
	return model.Observation{
		UserID:       "u1",
		Exercise:     exercise,
		Dominance:    side,
		TS:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Power:        power,
		Acceleration: accel,
		Sex:          "female",
	}
}

func TestCappedMean(t *testing.T) {
	Convey("Given development scores", t, func() {
		Convey("When some exceed the cap", func() {
			avg := development.CappedMean([]model.Value{model.Some(150), model.Some(80)})

			Convey("Then they count as 100", func() {
				So(avg.Or(-1), ShouldEqual, 90)
			})
		})

		Convey("When some are absent", func() {
			avg := development.CappedMean([]model.Value{model.Absent(), model.Some(40), model.Absent(), model.Some(60)})

			Convey("Then they are skipped, not imputed", func() {
				So(avg.Or(-1), ShouldEqual, 50)
			})
		})

		Convey("When everything is absent", func() {
			Convey("Then the mean is absent", func() {
				So(development.CappedMean([]model.Value{model.Absent()}).IsAbsent(), ShouldBeTrue)
				So(development.CappedMean(nil).IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When any mix is averaged", func() {
			Convey("Then the result never exceeds the cap", func() {
				vals := []model.Value{model.Some(1e9), model.Some(250), model.Some(101)}
				So(development.CappedMean(vals).Or(-1), ShouldEqual, 100)
			})
		})
	})
}

func TestClassifier_Develop(t *testing.T) {
	Convey("Given a classifier and a two-instance user", t, func() {
		cat := catalog.Default()
		c := development.NewClassifier(identity)
		m := instance.NewBuilder(cat).Build([]model.Observation{
			row("Lateral Bound", "Dominant", 0, model.Some(120), model.Some(40)),
			row("Vertical Jump (Countermovement)", "", 1, model.Some(80), model.Some(50)),
			row("Lateral Bound", "Dominant", 40, model.Some(70), model.Some(20)),
			row("Chest Press (One Hand)", "Dominant", 41, model.Some(500), model.Some(500)),
		})
		p := c.Develop(m, model.Female)
		bound, _ := cat.Index(catalog.Movement{Exercise: "Lateral Bound", Side: catalog.Dominant})

		Convey("Then raw scores are kept uncapped", func() {
			So(p.Len(), ShouldEqual, 2)
			So(p.Score(model.Power, 0, bound).Or(-1), ShouldEqual, 120)
		})

		Convey("Then instance 1 averages are capped and bracketed per metric", func() {
			s := p.Summary(0)
			So(s.Power.Average.Or(-1), ShouldEqual, 90)
			b, ok := s.Power.Classified()
			So(ok, ShouldBeTrue)
			So(b, ShouldEqual, bracket.Elite)

			So(s.Acceleration.Average.Or(-1), ShouldEqual, 45)
			b, _ = s.Acceleration.Classified()
			So(b, ShouldEqual, bracket.UnderDeveloped)

			So(s.Overall.Or(-1), ShouldEqual, 67.5)
		})

		Convey("Then movements without a score are skipped", func() {
			s := p.Summary(1)
			So(s.Power.Average.Or(-1), ShouldEqual, 70)
			b, _ := s.Metric(model.Power).Classified()
			So(b, ShouldEqual, bracket.Average)
			So(s.Metric(model.Acceleration).Average.Or(-1), ShouldEqual, 20)
		})

		Convey("Then region averages use only the requested movements", func() {
			legs := cat.RegionIndices(catalog.Legs)
			So(p.Average(model.Power, 0, legs).Or(-1), ShouldEqual, 90)
			So(p.Average(model.Power, 0, cat.RegionIndices(catalog.Arms)).IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given an instance with no scorable movement", t, func() {
		cat := catalog.Default()
		c := development.NewClassifier(identity)
		m := instance.NewBuilder(cat).Build([]model.Observation{
			row("Chest Press (One Hand)", "Dominant", 0, model.Some(100), model.Some(10)),
		})
		p := c.Develop(m, model.Male)

		Convey("Then both averages, the overall and the brackets are absent", func() {
			s := p.Summary(0)
			So(s.Power.Average.IsAbsent(), ShouldBeTrue)
			So(s.Acceleration.Average.IsAbsent(), ShouldBeTrue)
			So(s.Overall.IsAbsent(), ShouldBeTrue)
			_, ok := s.Power.Classified()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClassifier_Score(t *testing.T) {
	Convey("Given the goal standard scorer", t, func() {
		c := development.NewClassifier(scoring.NewGoalStandardScorer())
		mv := catalog.Movement{Exercise: "Lateral Bound", Side: catalog.NonDominant}

		Convey("When the raw value is absent", func() {
			Convey("Then the score is absent", func() {
				So(c.Score(model.Absent(), mv, model.Male, model.Power).IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When the raw value is present", func() {
			Convey("Then it is the percentage of the goal", func() {
				So(c.Score(model.Some(700), mv, model.Male, model.Power).Or(-1), ShouldEqual, 50)
			})
		})

		Convey("When classifying with a custom scheme", func() {
			s, err := bracket.NewScheme(50, 40, 30, 20, 10)
			So(err, ShouldBeNil)
			c = development.NewClassifier(identity, development.WithScheme(s))
			b, ok := c.Classify(model.Some(55))
			So(ok, ShouldBeTrue)
			So(b, ShouldEqual, bracket.GoalHit)
			_, ok = c.Classify(model.Absent())
			So(ok, ShouldBeFalse)
		})
	})
}

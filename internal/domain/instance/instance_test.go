package instance_test

import (
	"testing"
	"time"

	"github.com/okian/devbracket/internal/domain/catalog"
	"github.com/okian/devbracket/internal/domain/instance"
	"github.com/okian/devbracket/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var start = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func obs(exercise, side string, day int, power, accel float64) model.Observation {
	return model.Observation{
		UserID:       "u1",
		Exercise:     exercise,
		Dominance:    side,
		TS:           start.AddDate(0, 0, day),
		Power:        model.Some(power),
		Acceleration: model.Some(accel),
		Sex:          "male",
	}
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a builder over the default catalog", t, func() {
		cat := catalog.Default()
		b := instance.NewBuilder(cat)
		bound, _ := cat.Index(catalog.Movement{Exercise: "Lateral Bound", Side: catalog.Dominant})
		jump, _ := cat.Index(catalog.Movement{Exercise: "Vertical Jump (Countermovement)"})

		Convey("When one movement is observed twice", func() {
			m := b.Build([]model.Observation{
				obs("Lateral Bound", "Dominant", 10, 215, 23),
				obs("Lateral Bound", "Dominant", 1, 210, 22),
			})

			Convey("Then each observation opens its own instance in time order", func() {
				So(m.Len(), ShouldEqual, 2)
				So(m.Instance(0).Value(model.Power, bound).Or(0), ShouldEqual, 210)
				So(m.Instance(0).Value(model.Acceleration, bound).Or(0), ShouldEqual, 22)
				So(m.Instance(1).Value(model.Power, bound).Or(0), ShouldEqual, 215)
				So(m.Instance(1).Value(model.Acceleration, bound).Or(0), ShouldEqual, 23)
				So(m.Gaps(), ShouldResemble, []float64{9})
			})

			Convey("And every other cell is absent, not zero", func() {
				col := m.Instance(0).Column(model.Power)
				So(len(col), ShouldEqual, cat.Len())
				for i, v := range col {
					if i != bound {
						So(v.IsAbsent(), ShouldBeTrue)
					}
				}
			})
		})

		Convey("When different movements are spread over days", func() {
			m := b.Build([]model.Observation{
				obs("Lateral Bound", "Dominant", 0, 200, 20),
				obs("Vertical Jump (Countermovement)", "", 3, 1800, 19),
				obs("Lateral Bound", "Dominant", 30, 220, 21),
				obs("Vertical Jump (Countermovement)", "neither", 31, 1900, 20),
				obs("Lateral Bound", "dominant", 60, 230, 22),
			})

			Convey("Then movements fill the earliest open slot", func() {
				So(m.Len(), ShouldEqual, 3)
				So(m.Instance(0).Size(), ShouldEqual, 2)
				So(m.Instance(1).Size(), ShouldEqual, 2)
				So(m.Instance(2).Size(), ShouldEqual, 1)
				So(m.Instance(2).Has(bound), ShouldBeTrue)
				So(m.Instance(2).Has(jump), ShouldBeFalse)
			})
		})

		Convey("When a movement first appears after others repeated", func() {
			m := b.Build([]model.Observation{
				obs("Lateral Bound", "Dominant", 0, 200, 20),
				obs("Lateral Bound", "Dominant", 30, 220, 21),
				obs("Vertical Jump (Countermovement)", "", 40, 1800, 19),
			})

			Convey("Then it still lands in the first instance", func() {
				So(m.Len(), ShouldEqual, 2)
				So(m.Instance(0).Has(jump), ShouldBeTrue)
				ts, ok := m.Instance(0).Taken(jump)
				So(ok, ShouldBeTrue)
				So(ts, ShouldEqual, start.AddDate(0, 0, 40))
			})
		})

		Convey("When observations are incomplete or unknown", func() {
			partial := obs("Lateral Bound", "Dominant", 0, 200, 20)
			partial.Acceleration = model.Absent()
			m := b.Build([]model.Observation{
				partial,
				obs("Lateral Bound", "", 1, 200, 20),
				obs("Deadlift", "", 2, 200, 20),
				obs("Vertical Jump (Countermovement)", "", 3, 1800, 19),
			})

			Convey("Then they are dropped before assignment", func() {
				So(m.Len(), ShouldEqual, 1)
				So(m.Instance(0).Has(bound), ShouldBeFalse)
				So(m.Stats(), ShouldResemble, instance.Stats{Accepted: 1, Incomplete: 1, Unknown: 2})
			})
		})

		Convey("When a measured zero is recorded", func() {
			m := b.Build([]model.Observation{obs("Lateral Bound", "Dominant", 0, 0, 0)})

			Convey("Then it stays present", func() {
				v, ok := m.Instance(0).Value(model.Power, bound).Get()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0)
			})
		})

		Convey("When the input is empty", func() {
			m := b.Build(nil)

			Convey("Then there are no instances", func() {
				So(m.Len(), ShouldEqual, 0)
				So(m.Gaps(), ShouldBeEmpty)
			})
		})
	})
}

func TestBuilder_MinDaysBetweenTests(t *testing.T) {
	Convey("Given a builder with a 45 day gate", t, func() {
		cat := catalog.Default()
		b := instance.NewBuilder(cat, instance.WithMinDaysBetweenTests(45))

		Convey("When a movement repeats too soon", func() {
			m := b.Build([]model.Observation{
				obs("Lateral Bound", "Dominant", 0, 200, 20),
				obs("Lateral Bound", "Dominant", 20, 205, 20),
				obs("Lateral Bound", "Dominant", 50, 210, 21),
				obs("Lateral Bound", "Dominant", 70, 215, 21),
			})

			Convey("Then repeats within the gate of the last accepted one are skipped", func() {
				So(m.Len(), ShouldEqual, 2)
				So(m.Stats().TooSoon, ShouldEqual, 2)
				So(m.Gaps(), ShouldResemble, []float64{50})
			})
		})

		Convey("When the gate is disabled", func() {
			m := instance.NewBuilder(cat, instance.WithMinDaysBetweenTests(0)).Build([]model.Observation{
				obs("Lateral Bound", "Dominant", 0, 200, 20),
				obs("Lateral Bound", "Dominant", 1, 205, 20),
			})

			Convey("Then every repeat opens an instance", func() {
				So(m.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestBuilder_Properties(t *testing.T) {
	Convey("Given a long irregular history", t, func() {
		cat := catalog.Default()
		b := instance.NewBuilder(cat)
		names := []struct{ ex, side string }{
			{"Lateral Bound", "Dominant"},
			{"Lateral Bound", "Non-Dominant"},
			{"Vertical Jump (Countermovement)", ""},
			{"Shot Put (Countermovement)", ""},
			{"Chest Press (One Hand)", "Dominant"},
		}
		var rows []model.Observation
		for d := 0; d < 60; d++ {
			n := names[(d*7)%len(names)]
			if d%3 == 0 {
				n = names[0]
			}
			rows = append(rows, obs(n.ex, n.side, d, float64(100+d), float64(10+d%5)))
		}
		m := b.Build(rows)

		Convey("Then a movement's instance index equals its occurrence rank", func() {
			seen := map[int]int{}
			for _, r := range rows {
				mv, _ := cat.Resolve(r.Exercise, r.Dominance)
				idx, _ := cat.Index(mv)
				k := seen[idx]
				So(m.Instance(k).Has(idx), ShouldBeTrue)
				So(m.Instance(k).Value(model.Power, idx).Or(-1), ShouldEqual, r.Power.Or(0))
				seen[idx]++
			}
		})

		Convey("Then no instance is empty", func() {
			for _, in := range m.Instances() {
				So(in.Size(), ShouldBeGreaterThan, 0)
			}
		})
	})
}

package model_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/okian/devbracket/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseSex(t *testing.T) {
	convey.Convey("Given raw sex labels", t, func() {
		convey.Convey("When the label is male or female in any case", func() {
			m, okM := model.ParseSex(" MALE ")
			f, okF := model.ParseSex("Female")

			convey.Convey("Then it should normalize", func() {
				convey.So(okM, convey.ShouldBeTrue)
				convey.So(m, convey.ShouldEqual, model.Male)
				convey.So(okF, convey.ShouldBeTrue)
				convey.So(f, convey.ShouldEqual, model.Female)
			})
		})

		convey.Convey("When the label is unset or unknown", func() {
			_, okEmpty := model.ParseSex("")
			_, okUnknown := model.ParseSex("unknown")

			convey.Convey("Then it should be rejected", func() {
				convey.So(okEmpty, convey.ShouldBeFalse)
				convey.So(okUnknown, convey.ShouldBeFalse)
			})
		})
	})
}

func TestValue(t *testing.T) {
	convey.Convey("Given optional values", t, func() {
		convey.Convey("When a measured zero is stored", func() {
			v := model.Some(0)
			got, ok := v.Get()

			convey.Convey("Then it is present and distinct from absent", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got, convey.ShouldEqual, 0)
				convey.So(v.IsAbsent(), convey.ShouldBeFalse)
				convey.So(model.Absent().IsAbsent(), convey.ShouldBeTrue)
				convey.So(model.Value{}.IsAbsent(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When NaN or Inf is stored", func() {
			convey.Convey("Then it collapses to absent", func() {
				convey.So(model.Some(math.NaN()).IsAbsent(), convey.ShouldBeTrue)
				convey.So(model.Some(math.Inf(1)).IsAbsent(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When encoding to JSON", func() {
			b, err := json.Marshal([]model.Value{model.Some(1.5), model.Absent()})

			convey.Convey("Then absent is null", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual, "[1.5,null]")
			})

			convey.Convey("And decoding restores presence", func() {
				var out []model.Value
				convey.So(json.Unmarshal(b, &out), convey.ShouldBeNil)
				convey.So(out[0].Or(-1), convey.ShouldEqual, 1.5)
				convey.So(out[1].IsAbsent(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestObservation(t *testing.T) {
	convey.Convey("Given an observation", t, func() {
		o := model.Observation{
			UserID:       "u1",
			Exercise:     "Lateral Bound",
			Dominance:    "Dominant",
			TS:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Power:        model.Some(210),
			Acceleration: model.Some(22),
		}

		convey.Convey("When both metrics are present", func() {
			convey.Convey("Then it is complete and metrics resolve", func() {
				convey.So(o.Complete(), convey.ShouldBeTrue)
				convey.So(o.Metric(model.Power).Or(0), convey.ShouldEqual, 210)
				convey.So(o.Metric(model.Acceleration).Or(0), convey.ShouldEqual, 22)
				convey.So(o.Metric("speed").IsAbsent(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When acceleration is missing", func() {
			o.Acceleration = model.Absent()

			convey.Convey("Then it is incomplete", func() {
				convey.So(o.Complete(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When titling metrics", func() {
			convey.So(model.Power.Title(), convey.ShouldEqual, "Power")
			convey.So(model.Acceleration.Title(), convey.ShouldEqual, "Acceleration")
		})
	})
}

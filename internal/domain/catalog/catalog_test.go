package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/devbracket/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := catalog.Default()

		Convey("Then it tracks every movement variant in region order", func() {
			So(c.Len(), ShouldEqual, 20)
			So(c.Regions(), ShouldResemble, []string{catalog.Torso, catalog.Arms, catalog.PressPull, catalog.Legs})
			So(c.Movement(0).String(), ShouldEqual, "Straight Arm Trunk Rotation (Dominant)")
			So(c.Movement(2).String(), ShouldEqual, "Shot Put (Countermovement)")
			So(c.Movement(3).String(), ShouldEqual, "Shot Put (Countermovement) (Dominant)")
			So(c.Movement(c.Len()-1).String(), ShouldEqual, "Vertical Jump (Countermovement)")
		})

		Convey("Then region indices cover the catalog exactly once", func() {
			seen := map[int]bool{}
			for _, r := range c.Regions() {
				for _, i := range c.RegionIndices(r) {
					So(seen[i], ShouldBeFalse)
					seen[i] = true
					So(c.RegionOf(c.Movement(i)), ShouldEqual, r)
				}
			}
			So(len(seen), ShouldEqual, c.Len())
			So(len(c.RegionIndices(catalog.Torso)), ShouldEqual, 5)
			So(len(c.RegionIndices(catalog.Legs)), ShouldEqual, 3)
		})

		Convey("When resolving raw labels", func() {
			Convey("Then required-side exercises need a side", func() {
				m, ok := c.Resolve("Lateral Bound", "dominant")
				So(ok, ShouldBeTrue)
				So(m, ShouldResemble, catalog.Movement{Exercise: "Lateral Bound", Side: catalog.Dominant})

				m, ok = c.Resolve("Lateral Bound", " NON-DOMINANT ")
				So(ok, ShouldBeTrue)
				So(m.Side, ShouldEqual, catalog.NonDominant)

				_, ok = c.Resolve("Lateral Bound", "")
				So(ok, ShouldBeFalse)
			})

			Convey("Then optional-side exercises accept both forms", func() {
				m, ok := c.Resolve("Shot Put (Countermovement)", "neither")
				So(ok, ShouldBeTrue)
				So(m.Side, ShouldEqual, catalog.NoSide)

				m, ok = c.Resolve("Shot Put (Countermovement)", "Dominant")
				So(ok, ShouldBeTrue)
				So(m.String(), ShouldEqual, "Shot Put (Countermovement) (Dominant)")
			})

			Convey("Then side-less exercises reject a side", func() {
				_, ok := c.Resolve("Vertical Jump (Countermovement)", "Neither")
				So(ok, ShouldBeTrue)
				_, ok = c.Resolve("Vertical Jump (Countermovement)", "Dominant")
				So(ok, ShouldBeFalse)
			})

			Convey("Then unknown names and labels are rejected", func() {
				_, ok := c.Resolve("lateral bound", "Dominant")
				So(ok, ShouldBeFalse)
				_, ok = c.Resolve("Lateral Bound", "left")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When mutating returned slices", func() {
			ms := c.Movements()
			ms[0] = catalog.Movement{Exercise: "x"}
			rs := c.Regions()
			rs[0] = "x"

			Convey("Then the catalog is unaffected", func() {
				So(c.Movement(0).Exercise, ShouldEqual, "Straight Arm Trunk Rotation")
				So(c.Regions()[0], ShouldEqual, catalog.Torso)
			})
		})
	})
}

func TestNewCatalogValidation(t *testing.T) {
	Convey("Given malformed region definitions", t, func() {
		ex := []catalog.Exercise{{Name: "Squat", Sides: catalog.SidesNone}}
		cases := map[string][]catalog.Region{
			"no regions":       nil,
			"unnamed region":   {{Name: "", Exercises: ex}},
			"empty region":     {{Name: "Legs"}},
			"duplicate region": {{Name: "Legs", Exercises: ex}, {Name: "Legs", Exercises: []catalog.Exercise{{Name: "Lunge"}}}},
			"duplicate name":   {{Name: "Legs", Exercises: ex}, {Name: "Hips", Exercises: ex}},
			"unnamed exercise": {{Name: "Legs", Exercises: []catalog.Exercise{{Name: " "}}}},
			"unknown sides":    {{Name: "Legs", Exercises: []catalog.Exercise{{Name: "Squat", Sides: catalog.Sides(9)}}}},
		}

		for name, regions := range cases {
			Convey("When "+name, func() {
				c, err := catalog.New(regions...)

				Convey("Then New fails with ErrInvalidCatalog", func() {
					So(c, ShouldBeNil)
					So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				})
			})
		}
	})
}

func TestStandardizeDominance(t *testing.T) {
	Convey("Given raw dominance labels", t, func() {
		for raw, want := range map[string]catalog.Dominance{
			"":             catalog.NoSide,
			"Neither":      catalog.NoSide,
			"none":         catalog.NoSide,
			"DOMINANT":     catalog.Dominant,
			"Non-Dominant": catalog.NonDominant,
			"non dominant": catalog.NonDominant,
		} {
			got, ok := catalog.StandardizeDominance(raw)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}
		_, ok := catalog.StandardizeDominance("left")
		So(ok, ShouldBeFalse)
	})
}

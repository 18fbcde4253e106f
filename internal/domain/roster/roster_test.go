package roster_test

import (
	"errors"
	"testing"

	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the default roster", t, func() {
		r := roster.Default()

		Convey("It lists the five animals in a stable order", func() {
			So(r.Len(), ShouldEqual, 5)
			So(r.IDs(), ShouldResemble, []string{"cheetah", "dog", "rabbit", "turtle", "snail"})
		})

		Convey("Every competitor has an authored motion profile", func() {
			for _, id := range r.IDs() {
				So(motion.Default().Has(id), ShouldBeTrue)
			}
		})

		Convey("Lookups resolve by id", func() {
			c, ok := r.Get("turtle")
			So(ok, ShouldBeTrue)
			So(c.BaseSpeed, ShouldEqual, 60)
			So(r.Position("rabbit"), ShouldEqual, 2)
			So(r.Position("unicorn"), ShouldEqual, -1)
			_, ok = r.Get("unicorn")
			So(ok, ShouldBeFalse)
		})

		Convey("All returns a copy", func() {
			all := r.All()
			all[0].Name = "changed"
			c, _ := r.Get("cheetah")
			So(c.Name, ShouldNotEqual, "changed")
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given competitor lists", t, func() {
		Convey("Duplicates are rejected", func() {
			_, err := roster.New(roster.Competitor{ID: "a"}, roster.Competitor{ID: "a"})
			So(errors.Is(err, roster.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("Empty ids are rejected", func() {
			_, err := roster.New(roster.Competitor{Name: "nobody"})
			So(errors.Is(err, roster.ErrEmptyID), ShouldBeTrue)
		})

		Convey("An empty roster is allowed", func() {
			r, err := roster.New()
			So(err, ShouldBeNil)
			So(r.Len(), ShouldEqual, 0)
		})
	})
}

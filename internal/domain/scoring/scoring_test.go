package scoring_test

import (
	"context"
	"errors"
	"testing"

	scoring "github.com/okian/animalrace/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPointsScorer_Score(t *testing.T) {
	Convey("Given a default points scorer", t, func() {
		scorer := scoring.NewPointsScorer()
		ctx := context.Background()

		Convey("When the answer is correct", func() {
			result, err := scorer.Score(ctx, scoring.Input{Total: 5, Correct: true})

			Convey("Then ten points are added", func() {
				So(err, ShouldBeNil)
				So(result.Correct, ShouldBeTrue)
				So(result.Delta, ShouldEqual, 10)
				So(result.Total, ShouldEqual, 15)
			})
		})

		Convey("When the answer is wrong", func() {
			result, err := scorer.Score(ctx, scoring.Input{Total: 5})

			Convey("Then one point is taken", func() {
				So(err, ShouldBeNil)
				So(result.Correct, ShouldBeFalse)
				So(result.Delta, ShouldEqual, -1)
				So(result.Total, ShouldEqual, 4)
			})
		})

		Convey("When a wrong answer would go below zero", func() {
			result, err := scorer.Score(ctx, scoring.Input{Total: 0})

			Convey("Then the total is floored at zero", func() {
				So(err, ShouldBeNil)
				So(result.Delta, ShouldEqual, -1)
				So(result.Total, ShouldEqual, 0)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scorer.Score(cctx, scoring.Input{Total: 3, Correct: true})

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given custom points", t, func() {
		Convey("Positive penalties are negated", func() {
			scorer := scoring.NewPointsScorer(scoring.WithCorrectPoints(3), scoring.WithWrongPoints(2))
			correct, wrong := scorer.Points()
			So(correct, ShouldEqual, 3)
			So(wrong, ShouldEqual, -2)

			result, err := scorer.Score(context.Background(), scoring.Input{Total: 10})
			So(err, ShouldBeNil)
			So(result.Total, ShouldEqual, 8)
		})

		Convey("A non-positive reward keeps the default", func() {
			scorer := scoring.NewPointsScorer(scoring.WithCorrectPoints(0))
			correct, _ := scorer.Points()
			So(correct, ShouldEqual, 10)
		})

		Convey("A zero penalty makes wrong answers free", func() {
			scorer := scoring.NewPointsScorer(scoring.WithWrongPoints(0))
			result, err := scorer.Score(context.Background(), scoring.Input{Total: 4})
			So(err, ShouldBeNil)
			So(result.Total, ShouldEqual, 4)
		})
	})
}

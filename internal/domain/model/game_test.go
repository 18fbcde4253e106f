package model_test

import (
	"testing"

	"github.com/okian/animalrace/internal/domain/judge"
	"github.com/okian/animalrace/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestGameMode(t *testing.T) {
	convey.Convey("Given the game modes", t, func() {
		convey.Convey("Only known modes are valid", func() {
			for _, m := range model.Modes {
				convey.So(m.Valid(), convey.ShouldBeTrue)
			}
			convey.So(model.GameMode("chess").Valid(), convey.ShouldBeFalse)
		})

		convey.Convey("The showcase race is the only unjudged mode", func() {
			convey.So(model.ModeRace.Judged(), convey.ShouldBeFalse)
			convey.So(model.ModeTimeMatch.Judged(), convey.ShouldBeTrue)
			convey.So(model.GameMode("chess").Judged(), convey.ShouldBeFalse)
		})

		convey.Convey("Animated modes run on a clock", func() {
			convey.So(model.ModeRace.Animated(), convey.ShouldBeTrue)
			convey.So(model.ModeDistanceMatch.Animated(), convey.ShouldBeTrue)
			convey.So(model.ModeTimeMatch.Animated(), convey.ShouldBeFalse)
			convey.So(model.ModeAllRecords.Animated(), convey.ShouldBeFalse)
		})

		convey.Convey("Options and judging rules follow the mode", func() {
			convey.So(model.ModeTimeMatch.Options(), convey.ShouldResemble, []float64{5, 10, 15, 20})
			convey.So(model.ModeDistanceMatch.Options(), convey.ShouldResemble, []float64{500, 1500, 2000, 3200})
			convey.So(model.ModeAllRecords.Options(), convey.ShouldBeNil)
			convey.So(model.ModeTimeMatch.JudgeMode(), convey.ShouldEqual, judge.ModeFixedTime)
			convey.So(model.ModeDistanceMatch.JudgeMode(), convey.ShouldEqual, judge.ModeFixedDistance)
			convey.So(model.ModeAllRecords.JudgeMode(), convey.ShouldEqual, judge.ModeFree)
			convey.So(model.ModeRace.JudgeMode(), convey.ShouldEqual, judge.Mode(""))
		})
	})
}

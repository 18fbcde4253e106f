package chart_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/animalrace/internal/chart"
	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given the default model and roster", t, func() {
		series := chart.Build(motion.Default(), roster.Default().All(), 1)

		Convey("Every competitor gets one sample per second including zero", func() {
			So(len(series), ShouldEqual, 5)
			for _, s := range series {
				So(len(s.Points), ShouldEqual, 21)
				So(s.Points[0].D, ShouldEqual, 0)
			}
		})

		Convey("Samples agree with the motion model", func() {
			So(series[0].CompetitorID, ShouldEqual, motion.Cheetah)
			So(series[0].Name, ShouldEqual, roster.Default().All()[0].Name)
			So(series[0].Points[10].T, ShouldEqual, 10.0)
			So(series[0].Points[10].D, ShouldEqual, 2100)
			So(series[0].Points[20].D, ShouldEqual, 3950)
		})

		Convey("A non-positive step uses the model step", func() {
			fine := chart.Build(motion.Default(), roster.Default().All()[:1], 0)
			So(len(fine[0].Points), ShouldEqual, 201)
			So(fine[0].Points[3].T, ShouldEqual, 0.3)
		})

		Convey("A step finer than the model step is coarsened to it", func() {
			fine := chart.Build(motion.Default(), roster.Default().All()[:1], 1e-12)
			So(len(fine[0].Points), ShouldEqual, 201)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given sampled series", t, func() {
		series := chart.Build(motion.Default(), roster.Default().All(), 0.5)

		Convey("RenderPNG writes a PNG image", func() {
			var buf bytes.Buffer
			So(chart.RenderPNG(&buf, "distance", series), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 8)
			So(buf.Bytes()[:8], ShouldResemble, []byte("\x89PNG\r\n\x1a\n"))
		})

		Convey("RenderHTML writes an echarts page", func() {
			var buf bytes.Buffer
			So(chart.RenderHTML(&buf, "distance", series), ShouldBeNil)
			body := buf.String()
			So(body, ShouldContainSubstring, "<html")
			So(body, ShouldContainSubstring, "echarts")
			So(body, ShouldContainSubstring, "distance")
		})

		Convey("Empty input is rejected", func() {
			var buf bytes.Buffer
			So(errors.Is(chart.RenderPNG(&buf, "x", nil), chart.ErrNoSeries), ShouldBeTrue)
			So(errors.Is(chart.RenderHTML(&buf, "x", nil), chart.ErrNoSeries), ShouldBeTrue)
		})
	})
}

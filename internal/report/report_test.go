package report_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/animalrace/internal/domain/practice"
	"github.com/okian/animalrace/internal/domain/roster"
	"github.com/okian/animalrace/internal/report"
	"github.com/okian/animalrace/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given the default report config", t, func() {
		cfg := report.DefaultConfig()
		cfg.PracticeRounds = 20
		var out bytes.Buffer

		Convey("The tables carry the model's numbers", func() {
			So(report.Run(context.Background(), cfg, &out), ShouldBeNil)
			text := out.String()
			So(text, ShouldContainSubstring, "Distance after t seconds")
			So(text, ShouldContainSubstring, "2100")
			So(text, ShouldContainSubstring, "Time to reach d")
			So(text, ShouldContainSubstring, "17.0s")
			So(text, ShouldContainSubstring, "Practice speeds (20 rounds, seed 1)")

			var winnerLines []string
			for _, line := range strings.Split(text, "\n") {
				if strings.HasPrefix(strings.TrimSpace(line), "winner") {
					winnerLines = append(winnerLines, strings.Fields(line)[1:]...)
				}
			}
			So(winnerLines, ShouldResemble, []string{
				"rabbit", "cheetah", "cheetah", "cheetah",
				"rabbit", "cheetah", "cheetah", "cheetah",
			})
		})

		Convey("Chart files are written on request", func() {
			dir := t.TempDir()
			cfg.PNGPath = filepath.Join(dir, "race.png")
			cfg.HTMLPath = filepath.Join(dir, "race.html")
			So(report.Run(context.Background(), cfg, &out), ShouldBeNil)

			png, err := os.ReadFile(cfg.PNGPath)
			So(err, ShouldBeNil)
			So(string(png[:4]), ShouldEqual, "\x89PNG")
			html, err := os.ReadFile(cfg.HTMLPath)
			So(err, ShouldBeNil)
			So(string(html), ShouldContainSubstring, "echarts")
		})

		Convey("An unwritable chart path fails", func() {
			cfg.PNGPath = filepath.Join(t.TempDir(), "missing", "race.png")
			So(report.Run(context.Background(), cfg, &out), ShouldNotBeNil)
		})

		Convey("Invalid settings are rejected", func() {
			bad := cfg
			bad.Step = 0
			So(errors.Is(report.Run(context.Background(), bad, &out), report.ErrInvalidConfig), ShouldBeTrue)
			bad = cfg
			bad.Times, bad.Distances = nil, nil
			So(errors.Is(bad.Validate(), report.ErrInvalidConfig), ShouldBeTrue)
			bad = cfg
			bad.PracticeRounds = -1
			So(errors.Is(bad.Validate(), report.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a seeded practice generator", t, func() {
		r := roster.Default()
		stats := report.Summarize(practice.NewGenerator(practice.WithSeed(42)), r, 50)

		Convey("Every competitor is summarized in roster order", func() {
			So(len(stats), ShouldEqual, r.Len())
			for i, c := range r.All() {
				So(stats[i].CompetitorID, ShouldEqual, c.ID)
				So(stats[i].Min, ShouldBeLessThanOrEqualTo, stats[i].Median)
				So(stats[i].Median, ShouldBeLessThanOrEqualTo, stats[i].Max)
				So(stats[i].Mean, ShouldBeBetweenOrEqual, stats[i].Min, stats[i].Max)
				So(stats[i].StdDev, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})

		Convey("Every round credits at least one winner", func() {
			total := 0
			for _, s := range stats {
				total += s.Wins
			}
			So(total, ShouldBeGreaterThanOrEqualTo, 50)
		})

		Convey("The same seed gives the same summary", func() {
			again := report.Summarize(practice.NewGenerator(practice.WithSeed(42)), r, 50)
			So(again, ShouldResemble, stats)
		})
	})
}

func TestParseFloats(t *testing.T) {
	Convey("Given comma separated values", t, func() {
		v, err := report.ParseFloats("5, 10,15")
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []float64{5, 10, 15})

		v, err = report.ParseFloats("")
		So(err, ShouldBeNil)
		So(v, ShouldBeNil)

		_, err = report.ParseFloats("5,x")
		So(errors.Is(err, report.ErrInvalidConfig), ShouldBeTrue)
	})
}

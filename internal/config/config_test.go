package config_test

import (
	"errors"
	"testing"

	"github.com/okian/animalrace/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the race defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RaceDuration, convey.ShouldEqual, 20)
			convey.So(cfg.SampleStep, convey.ShouldEqual, 0.1)
			convey.So(cfg.DisplayScale, convey.ShouldEqual, 3300)
			convey.So(cfg.DisplayMaxPercent, convey.ShouldEqual, 90)
			convey.So(cfg.DistanceMultiplier, convey.ShouldEqual, 1.5)
			convey.So(cfg.CorrectPoints, convey.ShouldEqual, 10)
			convey.So(cfg.WrongPoints, convey.ShouldEqual, -1)
			convey.So(cfg.JSONLogs(), convey.ShouldBeFalse)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given options", t, func() {
		cfg := config.New(config.WithAddr(":1234"), config.WithLogLevel("debug"), config.WithPracticeSeed(7))

		convey.Convey("Then they override the defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":1234")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			convey.So(cfg.PracticeSeed, convey.ShouldEqual, 7)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"addr":          func(c *config.Config) { c.Addr = "" },
			"race_duration": func(c *config.Config) { c.RaceDuration = 0 },
			"sample_step":   func(c *config.Config) { c.SampleStep = 25 },
			"tiny step":     func(c *config.Config) { c.SampleStep = 1e-12 },
			"long window":   func(c *config.Config) { c.RaceDuration = 40 },
			"display_scale": func(c *config.Config) { c.DisplayScale = -1 },
			"max_percent":   func(c *config.Config) { c.DisplayMaxPercent = 120 },
			"tick_hz":       func(c *config.Config) { c.TickHz = 0 },
			"multiplier":    func(c *config.Config) { c.DistanceMultiplier = 0 },
			"points":        func(c *config.Config) { c.CorrectPoints = 0 },
			"dedupe":        func(c *config.Config) { c.AnswerDedupeSize = 0 },
			"shards":        func(c *config.Config) { c.ShardCount = 0 },
			"ready delay":   func(c *config.Config) { c.ReadyDelay = -1 },
			"board limit":   func(c *config.Config) { c.LeaderboardLimit = 0 },
			"log_format":    func(c *config.Config) { c.LogFormat = "xml" },
		}
		for _, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})
}

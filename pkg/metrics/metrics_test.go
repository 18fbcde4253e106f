package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are applied", func() {
				So(m, ShouldNotBeNil)
				So(m.Enabled(), ShouldBeTrue)
				So(m.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(m.namespace, ShouldEqual, "animalrace")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("race"),
				WithMetricPrefix("x"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.distanceQueries.Inc()

			Convey("Then collectors carry the custom names and labels", func() {
				So(m.Enabled(), ShouldBeFalse)
				So(m.RefreshInterval(), ShouldEqual, 5*time.Second)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_race_x_distance_queries_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			m := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(m.namespace, ShouldEqual, "animalrace")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(m.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Motion queries are counted", func() {
			before := testutil.ToFloat64(Global().distanceQueries)
			RecordDistanceQuery()
			RecordDistanceQuery()
			So(testutil.ToFloat64(Global().distanceQueries)-before, ShouldEqual, 2)

			reached := testutil.ToFloat64(Global().reachQueries.WithLabelValues("true"))
			RecordReachQuery(true, 0.01)
			RecordReachQuery(false, 0.02)
			So(testutil.ToFloat64(Global().reachQueries.WithLabelValues("true"))-reached, ShouldEqual, 1)
		})

		Convey("Game events are counted by label", func() {
			before := testutil.ToFloat64(Global().answers.WithLabelValues("time_match", "correct"))
			RecordAnswer("time_match", "correct")
			So(testutil.ToFloat64(Global().answers.WithLabelValues("time_match", "correct"))-before, ShouldEqual, 1)

			So(func() {
				RecordVerdict("fixed_time")
				RecordRoundStarted("race")
				RecordScoreDelta(10)
				RecordScoreDelta(-1)
				RecordSessionCreated()
				RecordPracticeBatch()
				RecordFrameStreamed("sse")
			}, ShouldNotPanic)
		})

		Convey("Gauges track the last value", func() {
			UpdateActiveSessions(7)
			So(testutil.ToFloat64(Global().activeSessions), ShouldEqual, 7)
			UpdateActiveSessions(0)
			So(testutil.ToFloat64(Global().activeSessions), ShouldEqual, 0)

			StreamOpened()
			StreamOpened()
			StreamClosed()
			So(testutil.ToFloat64(Global().activeStreams), ShouldEqual, 1)
			StreamClosed()

			UpdateRepositoryShardCount(16)
			So(testutil.ToFloat64(Global().repositoryShardCount), ShouldEqual, 16)
			UpdateRepositoryRecordsPerShard("shard-0", 3)
			So(testutil.ToFloat64(Global().repositoryRecordsPerShard.WithLabelValues("shard-0")), ShouldEqual, 3)

			UpdateSystemMemoryUsage(4096)
			So(testutil.ToFloat64(Global().systemMemoryUsage), ShouldEqual, 4096)
			UpdateSystemGoroutineCount(12)
			So(testutil.ToFloat64(Global().systemGoroutineCount), ShouldEqual, 12)
			So(func() { RecordSystemGCPauseTime(0.2) }, ShouldNotPanic)
		})

		Convey("HTTP and error metrics accept labels", func() {
			So(func() {
				RecordHTTPRequest("/distance", "GET", "200")
				RecordHTTPRequestDuration("/distance", "GET", "200", 1.5)
				RecordRepositoryQueryLatency(0.2)
				RecordErrorByComponent("game", "not_found")
				RecordErrorByEndpoint("/sessions", "POST", "bad_request")
			}, ShouldNotPanic)
		})
	})
}

func TestDisabledRecording(t *testing.T) {
	Convey("Given a disabled global manager", t, func() {
		SetEnabled(false)
		defer SetEnabled(true)

		Convey("Package functions leave every collector untouched", func() {
			queries := testutil.ToFloat64(Global().distanceQueries)
			answers := testutil.ToFloat64(Global().answers.WithLabelValues("race", "correct"))
			UpdateActiveSessions(3)
			sessions := testutil.ToFloat64(Global().activeSessions)

			RecordDistanceQuery()
			RecordAnswer("race", "correct")
			UpdateActiveSessions(42)
			StreamOpened()

			So(Global().Enabled(), ShouldBeFalse)
			So(testutil.ToFloat64(Global().distanceQueries), ShouldEqual, queries)
			So(testutil.ToFloat64(Global().answers.WithLabelValues("race", "correct")), ShouldEqual, answers)
			So(testutil.ToFloat64(Global().activeSessions), ShouldEqual, sessions)
		})

		Convey("Re-enabling resumes recording", func() {
			SetEnabled(true)
			before := testutil.ToFloat64(Global().distanceQueries)
			RecordDistanceQuery()
			So(testutil.ToFloat64(Global().distanceQueries)-before, ShouldEqual, 1)
		})
	})
}

func TestRegistryExposition(t *testing.T) {
	Convey("Given the custom registry behind a handler", t, func() {
		RecordDistanceQuery()
		h := promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		Convey("Race metrics are exposed without Go runtime metrics", func() {
			So(w.Code, ShouldEqual, http.StatusOK)
			body := w.Body.String()
			So(body, ShouldContainSubstring, "animalrace_game_distance_queries_total")
			So(strings.Contains(body, "go_goroutines"), ShouldBeFalse)
		})
	})
}

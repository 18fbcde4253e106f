package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	service "github.com/okian/animalrace/internal/app"
	"github.com/okian/animalrace/internal/adapters/repository"
	"github.com/okian/animalrace/internal/domain/model"
	"github.com/okian/animalrace/internal/race"
	"github.com/okian/animalrace/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func startService(opts ...service.Option) (*service.Service, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := service.New(append([]service.Option{service.WithNow(clk.Now), service.WithPracticeSeed(7)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc, clk
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Queries report ErrNotStarted", func() {
			_, err := svc.DistanceAt(ctx, "cheetah", 10)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.NewSession(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("The roster is still listed", func() {
			So(len(svc.Competitors(ctx)), ShouldEqual, 5)
		})
	})

	Convey("Given a started service", t, func() {
		svc, _ := startService()

		Convey("Start is idempotent and Stop shuts it down", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given an invalid race window", t, func() {
		svc := service.New(service.WithRaceWindow(5, 10))
		err := svc.Start(context.Background())
		So(err, ShouldNotBeNil)
	})
}

func TestService_MotionQueries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, _ := startService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("Distances come from the motion model", func() {
			d, err := svc.DistanceAt(ctx, "cheetah", 10)
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 2100)

			d, err = svc.DistanceAt(ctx, "rabbit", 25)
			So(err, ShouldBeNil)
			So(d, ShouldEqual, 3420)
		})

		Convey("Unknown competitors are rejected at the service edge", func() {
			_, err := svc.DistanceAt(ctx, "unicorn", 10)
			So(errors.Is(err, service.ErrUnknownCompetitor), ShouldBeTrue)
			_, _, err = svc.TimeToReach(ctx, "unicorn", 10)
			So(errors.Is(err, service.ErrUnknownCompetitor), ShouldBeTrue)
		})

		Convey("Time to reach reports unreachable targets", func() {
			tt, ok, err := svc.TimeToReach(ctx, "rabbit", 500)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(tt, ShouldEqual, 2.0)

			_, ok, err = svc.TimeToReach(ctx, "snail", 5000)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("Comparisons produce verdicts", func() {
			v, err := svc.CompareTime(ctx, 5)
			So(err, ShouldBeNil)
			So(v.Winner, ShouldEqual, "rabbit")

			v, err = svc.CompareDistance(ctx, 3200)
			So(err, ShouldBeNil)
			So(v.Winner, ShouldEqual, "cheetah")

			v, err = svc.CompareDistance(ctx, 9999)
			So(err, ShouldBeNil)
			So(v.HasWinner(), ShouldBeFalse)
		})
	})
}

func TestService_Series(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, _ := startService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("Curves cover the whole roster", func() {
			series, err := svc.Series(ctx, 1)
			So(err, ShouldBeNil)
			So(len(series), ShouldEqual, 5)
			So(series[1].Points[10].D, ShouldEqual, 1690)
		})

		Convey("Steps outside the race window are rejected", func() {
			_, err := svc.Series(ctx, 30)
			So(errors.Is(err, service.ErrInvalidOption), ShouldBeTrue)
		})

		Convey("Steps finer than the model step are rejected", func() {
			for _, step := range []float64{1e-12, 1e-5, 0.05} {
				_, err := svc.Series(ctx, step)
				So(errors.Is(err, service.ErrInvalidOption), ShouldBeTrue)
			}
		})

		Convey("A zero step samples on the model grid", func() {
			series, err := svc.Series(ctx, 0)
			So(err, ShouldBeNil)
			So(len(series[0].Points), ShouldEqual, 201)
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, clk := startService()
		defer svc.Stop()
		ctx := context.Background()

		sess, err := svc.NewSession(ctx)
		So(err, ShouldBeNil)
		So(sess.SessionID, ShouldNotBeEmpty)
		So(sess.Score, ShouldEqual, 0)
		id := sess.SessionID

		Convey("Unknown sessions are reported", func() {
			_, err := svc.Session(ctx, "nope")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
			_, err = svc.StartRound(ctx, "nope", model.ModeTimeMatch, 10)
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})

		Convey("Round parameters are validated", func() {
			_, err := svc.StartRound(ctx, id, model.GameMode("chess"), 0)
			So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)
			_, err = svc.StartRound(ctx, id, model.ModeTimeMatch, 7)
			So(errors.Is(err, service.ErrInvalidOption), ShouldBeTrue)
			_, err = svc.StartRound(ctx, id, model.ModeDistanceMatch, 1000)
			So(errors.Is(err, service.ErrInvalidOption), ShouldBeTrue)
		})

		Convey("Answering without a round fails", func() {
			_, err := svc.Answer(ctx, id, "a1", "cheetah")
			So(errors.Is(err, service.ErrNoRound), ShouldBeTrue)
			_, err = svc.Frame(ctx, id)
			So(errors.Is(err, service.ErrNoRound), ShouldBeTrue)
		})

		Convey("A correct time match answer scores and closes the round", func() {
			round, err := svc.StartRound(ctx, id, model.ModeTimeMatch, 10)
			So(err, ShouldBeNil)
			So(round.Animated, ShouldBeFalse)

			f, err := svc.Frame(ctx, id)
			So(err, ShouldBeNil)
			So(f.Done, ShouldBeTrue)
			So(f.Lanes[0].Distance, ShouldEqual, 2100)

			out, err := svc.Answer(ctx, id, "a1", "cheetah")
			So(err, ShouldBeNil)
			So(out.Correct, ShouldBeTrue)
			So(out.Delta, ShouldEqual, 10)
			So(out.Total, ShouldEqual, 10)
			So(out.Winners, ShouldResemble, []string{"cheetah"})
			So(out.RoundClosed, ShouldBeTrue)

			_, err = svc.Answer(ctx, id, "a2", "cheetah")
			So(errors.Is(err, service.ErrNoRound), ShouldBeTrue)

			view, err := svc.Session(ctx, id)
			So(err, ShouldBeNil)
			So(view.Score, ShouldEqual, 10)
			So(view.Correct, ShouldEqual, 1)
			So(view.Round.Closed, ShouldBeTrue)
		})

		Convey("Wrong answers never push the score below zero", func() {
			_, err := svc.StartRound(ctx, id, model.ModeTimeMatch, 5)
			So(err, ShouldBeNil)

			out, err := svc.Answer(ctx, id, "w1", "dog")
			So(err, ShouldBeNil)
			So(out.Correct, ShouldBeFalse)
			So(out.Delta, ShouldEqual, -1)
			So(out.Total, ShouldEqual, 0)
			So(out.RoundClosed, ShouldBeFalse)

			out, err = svc.Answer(ctx, id, "w2", "rabbit")
			So(err, ShouldBeNil)
			So(out.Total, ShouldEqual, 10)
		})

		Convey("A repeated answer ID is not scored twice", func() {
			_, err := svc.StartRound(ctx, id, model.ModeTimeMatch, 15)
			So(err, ShouldBeNil)
			_, err = svc.Answer(ctx, id, "x", "cheetah")
			So(err, ShouldBeNil)
			_, err = svc.StartRound(ctx, id, model.ModeTimeMatch, 20)
			So(err, ShouldBeNil)

			out, err := svc.Answer(ctx, id, "x", "cheetah")
			So(err, ShouldBeNil)
			So(out.Duplicate, ShouldBeTrue)
			So(out.Delta, ShouldEqual, 0)
			So(out.Total, ShouldEqual, 10)
		})

		Convey("Unknown competitors are rejected", func() {
			_, err := svc.StartRound(ctx, id, model.ModeTimeMatch, 10)
			So(err, ShouldBeNil)
			_, err = svc.Answer(ctx, id, "u", "unicorn")
			So(errors.Is(err, service.ErrUnknownCompetitor), ShouldBeTrue)
		})

		Convey("Distance match answers wait for the finish", func() {
			round, err := svc.StartRound(ctx, id, model.ModeDistanceMatch, 500)
			So(err, ShouldBeNil)
			So(round.Animated, ShouldBeTrue)
			So(round.Multiplier, ShouldEqual, 1.5)

			_, err = svc.Answer(ctx, id, "early", "rabbit")
			So(errors.Is(err, service.ErrRaceRunning), ShouldBeTrue)

			clk.Advance(2 * time.Second)
			f, err := svc.Frame(ctx, id)
			So(err, ShouldBeNil)
			So(f.Elapsed, ShouldEqual, 3)
			So(f.Done, ShouldBeFalse)

			clk.Advance(12 * time.Second)
			f, err = svc.Frame(ctx, id)
			So(err, ShouldBeNil)
			So(f.Done, ShouldBeTrue)
			So(f.Lanes[2].Label, ShouldEqual, "2.0s")

			out, err := svc.Answer(ctx, id, "early", "rabbit")
			So(err, ShouldBeNil)
			So(out.Duplicate, ShouldBeFalse)
			So(out.Correct, ShouldBeTrue)
		})

		Convey("The showcase race waits for the countdown and is not judged", func() {
			_, err := svc.StartRound(ctx, id, model.ModeRace, 0)
			So(err, ShouldBeNil)

			f, err := svc.Frame(ctx, id)
			So(err, ShouldBeNil)
			So(f.Elapsed, ShouldEqual, 0)

			clk.Advance(7500 * time.Millisecond)
			f, err = svc.Frame(ctx, id)
			So(err, ShouldBeNil)
			So(f.Elapsed, ShouldEqual, 5.5)
			So(len(f.Cues), ShouldEqual, 3)

			clk.Advance(time.Minute)
			_, err = svc.Answer(ctx, id, "r", "cheetah")
			So(errors.Is(err, service.ErrNoRound), ShouldBeTrue)
		})

		Convey("All records rounds are judged on the generated records", func() {
			round, err := svc.StartRound(ctx, id, model.ModeAllRecords, 0)
			So(err, ShouldBeNil)
			So(len(round.Records), ShouldEqual, 5)

			best := round.Records[0]
			for _, r := range round.Records {
				if r.Speed > best.Speed {
					best = r
				}
				So(r.Distance, ShouldEqual, r.Speed*r.Time)
			}
			out, err := svc.Answer(ctx, id, "p1", best.CompetitorID)
			So(err, ShouldBeNil)
			So(out.Correct, ShouldBeTrue)

			_, err = svc.Frame(ctx, id)
			So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)
		})

		Convey("Streaming needs an animated round", func() {
			_, err := svc.StartRound(ctx, id, model.ModeTimeMatch, 10)
			So(err, ShouldBeNil)
			_, err = svc.Controller(ctx, id)
			So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)

			_, err = svc.StartRound(ctx, id, model.ModeDistanceMatch, 3200)
			So(err, ShouldBeNil)
			clk.Advance(time.Minute)
			ctrl, err := svc.Controller(ctx, id)
			So(err, ShouldBeNil)

			var frames []race.Frame
			err = ctrl.Run(ctx, func(f race.Frame) error {
				frames = append(frames, f)
				return nil
			})
			So(err, ShouldBeNil)
			So(len(frames), ShouldEqual, 1)
			So(frames[0].Done, ShouldBeTrue)
			So(frames[0].Lanes[3].Label, ShouldEqual, race.NotFinishedLabel)
		})

		Convey("Ending a session removes it", func() {
			So(svc.EndSession(ctx, id), ShouldBeNil)
			_, err := svc.Session(ctx, id)
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
			So(errors.Is(svc.EndSession(ctx, id), service.ErrSessionNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Leaderboard(t *testing.T) {
	Convey("Given sessions with different scores", t, func() {
		svc, _ := startService()
		defer svc.Stop()
		ctx := context.Background()

		a, _ := svc.NewSession(ctx)
		b, _ := svc.NewSession(ctx)
		_, err := svc.StartRound(ctx, b.SessionID, model.ModeTimeMatch, 10)
		So(err, ShouldBeNil)
		_, err = svc.Answer(ctx, b.SessionID, "1", "cheetah")
		So(err, ShouldBeNil)

		Convey("The best session ranks first", func() {
			top, err := svc.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[0].SessionID, ShouldEqual, b.SessionID)
			So(top[0].Score, ShouldEqual, 10)
			So(top[1].SessionID, ShouldEqual, a.SessionID)
		})

		Convey("Ranks follow the scores", func() {
			e, err := svc.Rank(ctx, b.SessionID)
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 1)
			e, err = svc.Rank(ctx, a.SessionID)
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 2)
			_, err = svc.Rank(ctx, "missing")
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})

		Convey("Limits are validated", func() {
			_, err := svc.Leaderboard(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("Stats count rounds and answers", func() {
			stats := svc.GetStats()
			So(stats["sessions"], ShouldEqual, 2)
			So(stats["roundsStarted"], ShouldEqual, int64(1))
			So(stats["answersRight"], ShouldEqual, int64(1))
			So(stats["openRounds"], ShouldEqual, 0)

			_, err := svc.StartRound(ctx, a.SessionID, model.ModeTimeMatch, 5)
			So(err, ShouldBeNil)
			So(svc.GetStats()["openRounds"], ShouldEqual, 1)
		})
	})
}

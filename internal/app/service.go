// Package service provides the game service behind the HTTP API: motion
// queries, winner resolution and scored game sessions.
package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/animalrace/internal/adapters/repository"
	"github.com/okian/animalrace/internal/chart"
	"github.com/okian/animalrace/internal/domain/dedupe"
	"github.com/okian/animalrace/internal/domain/judge"
	"github.com/okian/animalrace/internal/domain/model"
	"github.com/okian/animalrace/internal/domain/motion"
	"github.com/okian/animalrace/internal/domain/practice"
	"github.com/okian/animalrace/internal/domain/roster"
	"github.com/okian/animalrace/internal/domain/scoring"
	"github.com/okian/animalrace/internal/race"
	"github.com/okian/animalrace/pkg/logger"
	"github.com/okian/animalrace/pkg/metrics"
)

const defaultReadyDelay = 2 * time.Second

// Service implements the API dependencies for the race game.
type Service struct {
	mu sync.RWMutex

	// Core components
	motion   *motion.Model
	roster   *roster.Roster
	judge    *judge.Judge
	practice *practice.Generator
	scorer   scoring.Scorer
	deduper  dedupe.Deduper
	sessions *repository.ShardedStore[*session]
	board    *repository.Leaderboard

	// Configuration
	raceDuration       float64
	sampleStep         float64
	displayScale       float64
	maxPercent         float64
	tickHz             int
	raceMultiplier     float64
	distanceMultiplier float64
	readyDelay         time.Duration
	correctPoints      int
	wrongPoints        int
	dedupeSize         int
	shardCount         int
	practiceSeed       int64
	leaderboardLimit   int
	now                func() time.Time

	// State
	started bool
	logger  logger.Logger

	roundsStarted atomic.Int64
	answersTotal  atomic.Int64
	answersRight  atomic.Int64
}

type session struct {
	mu        sync.Mutex
	id        string
	score     int
	answered  int
	correct   int
	createdAt time.Time
	round     *round
}

type round struct {
	id       string
	mode     model.GameMode
	value    float64
	clock    *race.Clock
	track    *race.Track
	verdict  judge.Verdict
	records  []practice.Record
	closed   bool
	startsAt time.Time
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		raceDuration:       motion.DefaultRaceDuration,
		sampleStep:         motion.DefaultSampleStep,
		displayScale:       race.DefaultDisplayScale,
		maxPercent:         race.DefaultMaxPercent,
		tickHz:             60,
		raceMultiplier:     1.0,
		distanceMultiplier: 1.5,
		readyDelay:         defaultReadyDelay,
		correctPoints:      10,
		wrongPoints:        -1,
		dedupeSize:         50_000,
		shardCount:         8,
		leaderboardLimit:   100,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the motion model and the session stores.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("game")
	}

	m, err := motion.New(motion.WithRaceDuration(s.raceDuration), motion.WithSampleStep(s.sampleStep))
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	s.motion = m
	s.roster = roster.Default()
	s.judge = judge.New(m, s.roster)

	var genOpts []practice.Option
	if s.practiceSeed != 0 {
		genOpts = append(genOpts, practice.WithSeed(s.practiceSeed))
	}
	s.practice = practice.NewGenerator(genOpts...)
	s.scorer = scoring.NewPointsScorer(
		scoring.WithCorrectPoints(s.correctPoints),
		scoring.WithWrongPoints(s.wrongPoints),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.sessions = repository.NewShardedStore[*session](ctx,
		repository.WithShardCount(s.shardCount),
		repository.WithMetricsUpdateInterval(metrics.Global().RefreshInterval()),
	)
	s.board = repository.NewLeaderboard(s.leaderboardLimit)

	s.started = true
	s.logger.Info(ctx, "game service started",
		logger.Float64("race_duration", s.raceDuration),
		logger.Float64("sample_step", s.sampleStep),
		logger.Int("competitors", s.roster.Len()),
		logger.Int("shards", s.shardCount),
	)
	return nil
}

// Stop releases background resources. Sessions are dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	_ = s.sessions.Close()
	metrics.UpdateActiveSessions(0)
	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Competitors returns the roster in race order.
func (s *Service) Competitors(_ context.Context) []roster.Competitor {
	if s.ready() != nil {
		return roster.Default().All()
	}
	return s.roster.All()
}

// DistanceAt returns the floored distance of competitor after t seconds.
func (s *Service) DistanceAt(_ context.Context, competitor string, t float64) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if _, ok := s.roster.Get(competitor); !ok {
		return 0, fmt.Errorf("distance %q: %w", competitor, ErrUnknownCompetitor)
	}
	if math.IsNaN(t) {
		return 0, fmt.Errorf("distance: %w: t is NaN", ErrInvalidOption)
	}
	metrics.RecordDistanceQuery()
	return s.motion.DistanceAt(competitor, t), nil
}

// TimeToReach returns the earliest sampled time competitor covers d.
func (s *Service) TimeToReach(_ context.Context, competitor string, d float64) (float64, bool, error) {
	if err := s.ready(); err != nil {
		return 0, false, err
	}
	if _, ok := s.roster.Get(competitor); !ok {
		return 0, false, fmt.Errorf("time to reach %q: %w", competitor, ErrUnknownCompetitor)
	}
	if math.IsNaN(d) {
		return 0, false, fmt.Errorf("time to reach: %w: d is NaN", ErrInvalidOption)
	}
	start := time.Now()
	t, ok := s.motion.TimeToReach(competitor, d)
	metrics.RecordReachQuery(ok, float64(time.Since(start).Microseconds())/1000)
	return t, ok, nil
}

// CompareTime resolves who is furthest after t seconds.
func (s *Service) CompareTime(_ context.Context, t float64) (judge.Verdict, error) {
	if err := s.ready(); err != nil {
		return judge.Verdict{}, err
	}
	if math.IsNaN(t) {
		return judge.Verdict{}, fmt.Errorf("compare time: %w: t is NaN", ErrInvalidOption)
	}
	metrics.RecordVerdict(string(judge.ModeFixedTime))
	return s.judge.FixedTime(t), nil
}

// CompareDistance resolves who reaches d first.
func (s *Service) CompareDistance(_ context.Context, d float64) (judge.Verdict, error) {
	if err := s.ready(); err != nil {
		return judge.Verdict{}, err
	}
	if math.IsNaN(d) {
		return judge.Verdict{}, fmt.Errorf("compare distance: %w: d is NaN", ErrInvalidOption)
	}
	metrics.RecordVerdict(string(judge.ModeFixedDistance))
	return s.judge.FixedDistance(d), nil
}

// NewSession creates a session with a zero score.
func (s *Service) NewSession(ctx context.Context) (model.SessionView, error) {
	if err := s.ready(); err != nil {
		return model.SessionView{}, err
	}
	sess := &session{id: uuid.NewString(), createdAt: s.now()}
	if err := s.sessions.Create(ctx, sess.id, sess); err != nil {
		return model.SessionView{}, fmt.Errorf("new session: %w", err)
	}
	s.board.Set(ctx, sess.id, 0)

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	s.logger.Debug(ctx, "session created", logger.String("session_id", sess.id))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// Session returns the state of a session.
func (s *Service) Session(ctx context.Context, id string) (model.SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// EndSession removes a session and its leaderboard entry.
func (s *Service) EndSession(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("end session %s: %w", id, ErrSessionNotFound)
	}
	s.board.Remove(ctx, id)
	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	return nil
}

// StartRound opens a new round in mode, replacing any previous one.
// value is T for time_match and D for distance_match; other modes ignore it.
func (s *Service) StartRound(ctx context.Context, id string, mode model.GameMode, value float64) (model.RoundSummary, error) {
	if !mode.Valid() {
		return model.RoundSummary{}, fmt.Errorf("start round: %w: %q", ErrInvalidMode, mode)
	}
	if opts := mode.Options(); opts != nil && !slices.Contains(opts, value) {
		return model.RoundSummary{}, fmt.Errorf("start round: %w: %s does not offer %g", ErrInvalidOption, mode, value)
	}
	sess, err := s.session(ctx, id)
	if err != nil {
		return model.RoundSummary{}, err
	}

	now := s.now()
	r := &round{id: uuid.NewString(), mode: mode, startsAt: now}
	ids := s.roster.IDs()
	trackOpts := []race.TrackOption{race.WithDisplayScale(s.displayScale), race.WithMaxPercent(s.maxPercent)}

	switch mode {
	case model.ModeRace:
		r.startsAt = now.Add(s.readyDelay)
		r.clock = race.NewClock(r.startsAt, s.raceMultiplier, s.motion.Duration())
		r.track = race.NewTrack(s.motion, ids, append(trackOpts, race.WithCues(race.DefaultCues()))...)
	case model.ModeTimeMatch:
		r.value = value
		r.track = race.NewTrack(s.motion, ids, trackOpts...)
		r.verdict = s.judge.FixedTime(value)
	case model.ModeDistanceMatch:
		r.value = value
		r.clock = race.NewClock(now, s.distanceMultiplier, s.motion.Duration())
		r.track = race.NewTrack(s.motion, ids, append(trackOpts, race.WithTarget(value))...)
		r.verdict = s.judge.FixedDistance(value)
	case model.ModeAllRecords:
		r.records = s.practice.Generate(s.roster.All())
		r.verdict = judge.Free(r.records)
		metrics.RecordPracticeBatch()
	}
	if mode.Judged() {
		metrics.RecordVerdict(string(mode.JudgeMode()))
	}

	sess.mu.Lock()
	sess.round = r
	summary := s.summary(r)
	sess.mu.Unlock()

	s.roundsStarted.Add(1)
	metrics.RecordRoundStarted(string(mode))
	s.logger.Info(ctx, "round started",
		logger.String("session_id", id),
		logger.String("round_id", r.id),
		logger.String("mode", string(mode)),
		logger.Float64("value", value),
	)
	return summary, nil
}

// Frame returns the track state of the current round at this instant.
func (s *Service) Frame(ctx context.Context, id string) (race.Frame, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return race.Frame{}, err
	}
	sess.mu.Lock()
	r := sess.round
	sess.mu.Unlock()

	switch {
	case r == nil:
		return race.Frame{}, fmt.Errorf("frame %s: %w", id, ErrNoRound)
	case r.track == nil:
		return race.Frame{}, fmt.Errorf("frame %s: %w: %s has no track", id, ErrInvalidMode, r.mode)
	case r.clock == nil:
		return r.track.Frame(r.value, true), nil
	}
	now := s.now()
	return r.track.Frame(r.clock.Elapsed(now), r.clock.Done(now)), nil
}

// Controller returns a frame pump for the current animated round. Every
// controller of a round shares the round clock.
func (s *Service) Controller(ctx context.Context, id string) (*race.Controller, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	r := sess.round
	sess.mu.Unlock()

	if r == nil {
		return nil, fmt.Errorf("stream %s: %w", id, ErrNoRound)
	}
	if r.clock == nil {
		return nil, fmt.Errorf("stream %s: %w: %s is not animated", id, ErrInvalidMode, r.mode)
	}
	return race.NewController(r.track, r.clock, race.WithTickHz(s.tickHz), race.WithNow(s.now)), nil
}

// Answer scores competitorID as the player's pick for the open round.
// A repeated answerID is reported as a duplicate and not scored again.
func (s *Service) Answer(ctx context.Context, id, answerID, competitorID string) (model.Outcome, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return model.Outcome{}, err
	}
	if _, ok := s.roster.Get(competitorID); !ok {
		return model.Outcome{}, fmt.Errorf("answer: %w: %q", ErrUnknownCompetitor, competitorID)
	}
	if answerID == "" {
		answerID = uuid.NewString()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	r := sess.round
	if r == nil || r.closed || !r.mode.Judged() {
		return model.Outcome{}, fmt.Errorf("answer %s: %w", id, ErrNoRound)
	}
	mode := string(r.mode)
	if r.clock != nil && !r.clock.Done(s.now()) {
		metrics.RecordAnswer(mode, "rejected")
		return model.Outcome{}, fmt.Errorf("answer %s: %w", id, ErrRaceRunning)
	}

	out := model.Outcome{AnswerID: answerID, CompetitorID: competitorID}
	if s.deduper.SeenAndRecord(ctx, id+"/"+answerID) {
		out.Duplicate = true
		out.Total = sess.score
		metrics.RecordAnswer(mode, "duplicate")
		return out, nil
	}

	res, err := s.scorer.Score(ctx, scoring.Input{Total: sess.score, Correct: r.verdict.Accepts(competitorID)})
	if err != nil {
		s.deduper.Unrecord(ctx, id+"/"+answerID)
		metrics.RecordErrorByComponent("scoring", "score_failed")
		return model.Outcome{}, fmt.Errorf("answer %s: %w", id, err)
	}

	sess.score = res.Total
	sess.answered++
	s.answersTotal.Add(1)
	outcome := "wrong"
	if res.Correct {
		sess.correct++
		s.answersRight.Add(1)
		r.closed = true
		outcome = "correct"
	}
	s.board.Set(ctx, id, sess.score)

	out.Correct = res.Correct
	out.Delta = res.Delta
	out.Total = res.Total
	out.Winners = append([]string(nil), r.verdict.Winners...)
	out.RoundClosed = r.closed

	metrics.RecordAnswer(mode, outcome)
	metrics.RecordScoreDelta(res.Delta)
	s.logger.Debug(ctx, "answer scored",
		logger.String("session_id", id),
		logger.String("answer_id", answerID),
		logger.String("competitor", competitorID),
		logger.Bool("correct", res.Correct),
		logger.Int("total", res.Total),
	)
	return out, nil
}

// Leaderboard returns the best n sessions by score.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]repository.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.board.TopN(ctx, n)
}

// Rank returns the leaderboard entry of a session.
func (s *Service) Rank(ctx context.Context, id string) (repository.Entry, error) {
	if err := s.ready(); err != nil {
		return repository.Entry{}, err
	}
	e, err := s.board.Rank(ctx, id)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("rank %s: %w", id, ErrSessionNotFound)
	}
	return e, nil
}

// Series samples every competitor's distance curve every step seconds.
func (s *Service) Series(_ context.Context, step float64) ([]chart.Series, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	// 0 selects the model step; anything finer is rejected.
	if math.IsNaN(step) || step < 0 || (step > 0 && step < s.motion.Step()) || step > s.motion.Duration() {
		return nil, fmt.Errorf("series: %w: step %g", ErrInvalidOption, step)
	}
	return chart.Build(s.motion, s.roster.All(), step), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"raceDuration":  s.raceDuration,
		"sampleStep":    s.sampleStep,
		"tickHz":        s.tickHz,
		"roundsStarted": s.roundsStarted.Load(),
		"answersTotal":  s.answersTotal.Load(),
		"answersRight":  s.answersRight.Load(),
	}
	if s.started {
		ctx := context.Background()
		n := s.sessions.Count(ctx)
		stats["sessions"] = n
		stats["competitors"] = s.roster.Len()
		stats["dedupeSize"] = s.deduper.Size()
		stats["openRounds"] = s.openRounds()
		metrics.UpdateActiveSessions(n)
	}
	return stats
}

// openRounds counts sessions whose current round still takes answers.
func (s *Service) openRounds() int {
	n := 0
	s.sessions.Range(func(_ string, sess *session) bool {
		sess.mu.Lock()
		if sess.round != nil && !sess.round.closed {
			n++
		}
		sess.mu.Unlock()
		return true
	})
	return n
}

func (s *Service) session(ctx context.Context, id string) (*session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// view requires sess.mu.
func (s *Service) view(sess *session) model.SessionView {
	v := model.SessionView{
		SessionID: sess.id,
		Score:     sess.score,
		Answered:  sess.answered,
		Correct:   sess.correct,
		CreatedAt: sess.createdAt,
	}
	if sess.round != nil {
		sum := s.summary(sess.round)
		v.Round = &sum
	}
	return v
}

func (s *Service) summary(r *round) model.RoundSummary {
	sum := model.RoundSummary{
		RoundID:  r.id,
		Mode:     r.mode,
		Value:    r.value,
		Animated: r.clock != nil,
		StartsAt: r.startsAt,
		Closed:   r.closed,
		Records:  r.records,
	}
	if r.clock != nil {
		sum.Multiplier = r.clock.Multiplier()
	}
	return sum
}

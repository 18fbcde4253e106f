// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/animalrace/internal/adapters/repository"
	"github.com/okian/animalrace/internal/chart"
	"github.com/okian/animalrace/internal/domain/judge"
	"github.com/okian/animalrace/internal/domain/model"
	"github.com/okian/animalrace/internal/domain/roster"
	"github.com/okian/animalrace/internal/race"
)

// Dependencies required by HTTP handlers. The service layer satisfies it.
type Dependencies interface {
	QueryDependencies
	SessionDependencies
	StreamDependencies
	LeaderboardDependencies
	RankDependencies
	ChartDependencies
}

// QueryDependencies covers the stateless motion and verdict queries.
type QueryDependencies interface {
	Competitors(ctx context.Context) []roster.Competitor
	DistanceAt(ctx context.Context, competitor string, t float64) (int, error)
	TimeToReach(ctx context.Context, competitor string, d float64) (float64, bool, error)
	CompareTime(ctx context.Context, t float64) (judge.Verdict, error)
	CompareDistance(ctx context.Context, d float64) (judge.Verdict, error)
}

// SessionDependencies covers scored game sessions.
type SessionDependencies interface {
	NewSession(ctx context.Context) (model.SessionView, error)
	Session(ctx context.Context, id string) (model.SessionView, error)
	EndSession(ctx context.Context, id string) error
	StartRound(ctx context.Context, id string, mode model.GameMode, value float64) (model.RoundSummary, error)
	Frame(ctx context.Context, id string) (race.Frame, error)
	Answer(ctx context.Context, id, answerID, competitorID string) (model.Outcome, error)
}

// StreamDependencies hands out frame pumps for animated rounds.
type StreamDependencies interface {
	Controller(ctx context.Context, id string) (*race.Controller, error)
}

// ChartDependencies samples the distance curves.
type ChartDependencies interface {
	Series(ctx context.Context, step float64) ([]chart.Series, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// Server wires HTTP routes for the game API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	queryHandler       *QueryHandler
	sessionsHandler    *SessionsHandler
	answersHandler     *AnswersHandler
	streamHandler      *StreamHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	chartHandler       *ChartHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /leaderboard.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		queryHandler:       NewQueryHandler(deps),
		sessionsHandler:    NewSessionsHandler(deps),
		answersHandler:     NewAnswersHandler(deps),
		streamHandler:      NewStreamHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		chartHandler:       NewChartHandler(deps),
		dashboardHandler:   newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /competitors", MetricsMiddleware(s.queryHandler.HandleCompetitors, "competitors"))
	mux.HandleFunc("GET /distance", MetricsMiddleware(s.queryHandler.HandleDistance, "distance"))
	mux.HandleFunc("GET /time-to-reach", MetricsMiddleware(s.queryHandler.HandleTimeToReach, "time_to_reach"))
	mux.HandleFunc("GET /compare/time", MetricsMiddleware(s.queryHandler.HandleCompareTime, "compare_time"))
	mux.HandleFunc("GET /compare/distance", MetricsMiddleware(s.queryHandler.HandleCompareDistance, "compare_distance"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))
	mux.HandleFunc("POST /sessions/{id}/rounds", MetricsMiddleware(s.sessionsHandler.HandleStartRound, "rounds"))
	mux.HandleFunc("GET /sessions/{id}/frame", MetricsMiddleware(s.sessionsHandler.HandleFrame, "frame"))
	mux.HandleFunc("POST /sessions/{id}/answers", MetricsMiddleware(s.answersHandler.HandlePostAnswer, "answers"))
	mux.HandleFunc("GET /sessions/{id}/rank", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /sessions/{id}/stream", MetricsMiddleware(s.streamHandler.HandleSSE, "stream"))
	mux.HandleFunc("GET /sessions/{id}/ws", MetricsMiddleware(s.streamHandler.HandleWebsocket, "ws"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /chart", MetricsMiddleware(s.chartHandler.HandleChart, "chart"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// floatParam reads a required finite float query parameter.
func floatParam(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrBadRequest, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}
	return v, nil
}

// sessionID extracts the {id} path segment.
func sessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", fmt.Errorf("%w: missing session id", ErrBadRequest)
	}
	return id, nil
}

package api

import (
	"net/http"
	"strings"

	"github.com/okian/animalrace/internal/domain/judge"
)

// QueryHandler serves the stateless motion queries.
type QueryHandler struct {
	deps QueryDependencies
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(deps QueryDependencies) *QueryHandler {
	return &QueryHandler{deps: deps}
}

type distanceResponse struct {
	Competitor string  `json:"competitor"`
	T          float64 `json:"t"`
	Distance   int     `json:"distance"`
}

type reachResponse struct {
	Competitor string  `json:"competitor"`
	Distance   float64 `json:"distance"`
	Reached    bool    `json:"reached"`
	Time       float64 `json:"time,omitempty"`
}

type verdictResponse struct {
	Mode      judge.Mode       `json:"mode"`
	Winner    string           `json:"winner"`
	Winners   []string         `json:"winners"`
	Standings []judge.Standing `json:"standings"`
}

func newVerdictResponse(v judge.Verdict) verdictResponse {
	winners := v.Winners
	if winners == nil {
		winners = []string{}
	}
	return verdictResponse{Mode: v.Mode, Winner: v.Winner, Winners: winners, Standings: v.Standings}
}

// HandleCompetitors handles GET /competitors.
func (h *QueryHandler) HandleCompetitors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Competitors(r.Context()))
}

// HandleDistance handles GET /distance?competitor=&t=.
func (h *QueryHandler) HandleDistance(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("competitor"))
	t, err := floatParam(r, "t")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	d, err := h.deps.DistanceAt(r.Context(), id, t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, distanceResponse{Competitor: id, T: t, Distance: d})
}

// HandleTimeToReach handles GET /time-to-reach?competitor=&d=.
func (h *QueryHandler) HandleTimeToReach(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("competitor"))
	d, err := floatParam(r, "d")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	t, ok, err := h.deps.TimeToReach(r.Context(), id, d)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reachResponse{Competitor: id, Distance: d, Reached: ok, Time: t})
}

// HandleCompareTime handles GET /compare/time?t=.
func (h *QueryHandler) HandleCompareTime(w http.ResponseWriter, r *http.Request) {
	t, err := floatParam(r, "t")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	v, err := h.deps.CompareTime(r.Context(), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerdictResponse(v))
}

// HandleCompareDistance handles GET /compare/distance?d=.
func (h *QueryHandler) HandleCompareDistance(w http.ResponseWriter, r *http.Request) {
	d, err := floatParam(r, "d")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	v, err := h.deps.CompareDistance(r.Context(), d)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerdictResponse(v))
}

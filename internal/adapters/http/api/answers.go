package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// AnswersHandler handles answer submissions.
type AnswersHandler struct {
	deps SessionDependencies
}

// NewAnswersHandler creates a new answers handler.
func NewAnswersHandler(deps SessionDependencies) *AnswersHandler {
	return &AnswersHandler{deps: deps}
}

// answerRequest mirrors the OpenAPI schema for POST /sessions/{id}/answers.
// answer_id is the idempotency key; an empty one is generated server-side.
type answerRequest struct {
	AnswerID     string `json:"answer_id"`
	CompetitorID string `json:"competitor_id"`
}

func (a answerRequest) validate() error {
	if strings.TrimSpace(a.CompetitorID) == "" {
		return fmt.Errorf("%w: missing competitor_id", ErrBadRequest)
	}
	return nil
}

// HandlePostAnswer handles POST /sessions/{id}/answers. A replayed
// answer_id answers 200 with duplicate set; a scored one answers 201.
func (h *AnswersHandler) HandlePostAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := h.deps.Answer(r.Context(), id, strings.TrimSpace(req.AnswerID), strings.TrimSpace(req.CompetitorID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out.Duplicate {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

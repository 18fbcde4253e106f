package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/animalrace/internal/domain/model"
)

// SessionsHandler serves session lifecycle and round requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// roundRequest mirrors the OpenAPI schema for POST /sessions/{id}/rounds.
type roundRequest struct {
	Mode  string  `json:"mode"`
	Value float64 `json:"value"`
}

func (q roundRequest) validate() error {
	if strings.TrimSpace(q.Mode) == "" {
		return fmt.Errorf("%w: missing mode", ErrBadRequest)
	}
	if !model.GameMode(q.Mode).Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrBadRequest, q.Mode)
	}
	return nil
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.NewSession(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.deps.Session(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.deps.EndSession(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStartRound handles POST /sessions/{id}/rounds.
func (h *SessionsHandler) HandleStartRound(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req roundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	summary, err := h.deps.StartRound(r.Context(), id, model.GameMode(req.Mode), req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

// HandleFrame handles GET /sessions/{id}/frame.
func (h *SessionsHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	f, err := h.deps.Frame(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

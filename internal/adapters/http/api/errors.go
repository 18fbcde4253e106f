package api

import (
	"errors"
	"net/http"

	"github.com/okian/animalrace/internal/adapters/repository"
	service "github.com/okian/animalrace/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// statusFor maps a service error onto an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrUnknownCompetitor),
		errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoRound):
		return http.StatusConflict, "no_round"
	case errors.Is(err, service.ErrRaceRunning):
		return http.StatusConflict, "race_running"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError renders err with the status statusFor picks.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/animalrace/internal/race"
	"github.com/okian/animalrace/pkg/logger"
	"github.com/okian/animalrace/pkg/metrics"
)

const (
	wsWriteWait = 10 * time.Second
	wsReadLimit = 1 << 10
)

// StreamHandler pushes race frames over SSE and websocket.
type StreamHandler struct {
	deps     StreamDependencies
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps StreamDependencies) *StreamHandler {
	return &StreamHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.Get().Named("stream"),
	}
}

func (h *StreamHandler) controller(w http.ResponseWriter, r *http.Request) (*race.Controller, bool) {
	id, err := sessionID(r)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	ctrl, err := h.deps.Controller(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return ctrl, true
}

// HandleSSE handles GET /sessions/{id}/stream. Every frame is one "frame"
// event; the last one is sent as "done" and closes the stream.
func (h *StreamHandler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", errors.New("streaming unsupported"))
		return
	}
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	err := ctrl.Run(r.Context(), func(f race.Frame) error {
		b, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		event := "frame"
		if f.Done {
			event = "done"
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
			return err
		}
		flusher.Flush()
		metrics.RecordFrameStreamed("sse")
		return nil
	})
	h.finish(r.Context(), "sse", err)
}

// HandleWebsocket handles GET /sessions/{id}/ws. Frames are JSON text
// messages; the server closes normally after the final frame.
func (h *StreamHandler) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	// Reads only detect the peer going away.
	conn.SetReadLimit(wsReadLimit)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				ctrl.Stop()
				return
			}
		}
	}()

	err = ctrl.Run(r.Context(), func(f race.Frame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(f); err != nil {
			return err
		}
		metrics.RecordFrameStreamed("ws")
		return nil
	})
	if err == nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "race finished")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
	}
	h.finish(r.Context(), "ws", err)
}

func (h *StreamHandler) finish(ctx context.Context, transport string, err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		h.logger.Debug(ctx, "stream closed", logger.String("transport", transport))
	default:
		metrics.RecordErrorByComponent("stream", transport)
		h.logger.Warn(ctx, "stream aborted", logger.String("transport", transport), logger.Error(err))
	}
}

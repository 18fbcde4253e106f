package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/animalrace/internal/chart"
)

const (
	chartTitle       = "Distance over time"
	defaultChartStep = 0.5
)

// ChartHandler renders the distance curves.
type ChartHandler struct {
	deps ChartDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleChart handles GET /chart?format=html|png|json&step=.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	step := defaultChartStep
	if raw := r.URL.Query().Get("step"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0) {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid step", ErrBadRequest))
			return
		}
		step = v
	}
	series, err := h.deps.Series(r.Context(), step)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		contentType = "text/html; charset=utf-8"
		err = chart.RenderHTML(&buf, chartTitle, series)
	case "png":
		contentType = "image/png"
		err = chart.RenderPNG(&buf, chartTitle, series)
	case "json":
		writeJSON(w, http.StatusOK, series)
		return
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: unknown format %q", ErrBadRequest, format))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

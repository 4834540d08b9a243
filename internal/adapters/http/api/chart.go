package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/okian/robopath/internal/adapters/http/view"
	"github.com/okian/robopath/pkg/metrics"
)

const svgContentType = "image/svg+xml"

// ChartHandler serves the field diagram and the timeline chart.
type ChartHandler struct {
	deps Dependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleField handles GET /field.svg requests; heatmap=1 adds the density layer.
func (h *ChartHandler) HandleField(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_field"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	fv, err := h.deps.Field(r.Context(), sel.query(), sel.heatmap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	render(w, r, op, "field", svgContentType, view.FieldSVG(view.FieldData{
		Transform: fv.Transform,
		Overlay:   fv.Overlay,
		Heatmap:   fv.Heatmap,
	}))
}

// HandleTimelineSVG handles GET /timeline.svg requests.
func (h *ChartHandler) HandleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	h.timeline(w, r, "api.get_timeline_svg", svgContentType, view.TimelineSVG)
}

// HandleTimelinePNG handles GET /timeline.png requests.
func (h *ChartHandler) HandleTimelinePNG(w http.ResponseWriter, r *http.Request) {
	h.timeline(w, r, "api.get_timeline_png", "image/png", view.TimelinePNG)
}

func (h *ChartHandler) timeline(w http.ResponseWriter, r *http.Request, op, contentType string,
	draw func(io.Writer, []float64, []float64) error,
) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	times, dists, err := h.deps.Timeline(r.Context(), sel.query())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := draw(&buf, times, dists); err != nil {
		writeError(w, http.StatusInternalServerError, "render_error", WrapKind(op, ErrRender, err))
		return
	}
	metrics.RecordRenderLatency("timeline", metrics.SinceMs(start))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

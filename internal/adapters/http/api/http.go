// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"

	service "github.com/okian/robopath/internal/app"
	"github.com/okian/robopath/internal/domain/analysis"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/internal/domain/types"
	"github.com/okian/robopath/pkg/metrics"
)

// Dependencies required by HTTP handlers. The dashboard service satisfies it.
type Dependencies interface {
	Teams(ctx context.Context) ([]types.Option, error)
	DefaultTeam(opts []types.Option) *int
	Matches(ctx context.Context, team int) (types.MatchChoice, error)
	Events(ctx context.Context, q service.Query) ([]model.MatchEvent, error)
	Field(ctx context.Context, q service.Query, withHeatmap bool) (service.FieldView, error)
	Summary(ctx context.Context, q service.Query) (analysis.Summary, error)
	Timeline(ctx context.Context, q service.Query) (times, distances []float64, err error)
	Snapshot(ctx context.Context, q service.Query, withHeatmap bool) (service.Snapshot, error)
}

// Server wires HTTP routes for the dashboard and its JSON API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dataHandler      *DataHandler
	chartHandler     *ChartHandler
	dashboardHandler *DashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dataHandler:      NewDataHandler(deps),
		chartHandler:     NewChartHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	routes := []struct {
		pattern, endpoint string
		handler           http.HandlerFunc
	}{
		{"/healthz", "healthz", s.healthHandler.HandleHealth},
		{"/stats", "stats", s.statsHandler.HandleStats},
		{"/api/teams", "teams", s.dataHandler.HandleTeams},
		{"/api/matches", "matches", s.dataHandler.HandleMatches},
		{"/api/events", "events", s.dataHandler.HandleEvents},
		{"/api/summary", "summary", s.dataHandler.HandleSummary},
		{"/field.svg", "field", s.chartHandler.HandleField},
		{"/timeline.svg", "timeline", s.chartHandler.HandleTimelineSVG},
		{"/timeline.png", "timeline_png", s.chartHandler.HandleTimelinePNG},
		{"/partials/table", "table", s.dashboardHandler.HandleTable},
		{"/partials/summary", "summary_panel", s.dashboardHandler.HandleSummary},
		{"/", "dashboard", s.dashboardHandler.HandleDashboard},
	}
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, RequestIDMiddleware(MetricsMiddleware(rt.handler, rt.endpoint)))
	}
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

// render serves a templ component and records how long it took.
func render(w http.ResponseWriter, r *http.Request, op, view, contentType string, c templ.Component) {
	start := time.Now()
	templ.Handler(c,
		templ.WithContentType(contentType),
		templ.WithErrorHandler(func(_ *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusInternalServerError, "render_error", WrapKind(op, ErrRender, err))
			})
		}),
	).ServeHTTP(w, r)
	metrics.RecordRenderLatency(view, metrics.SinceMs(start))
}

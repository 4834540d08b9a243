package api

import (
	"net/http"
	"net/url"

	"github.com/okian/robopath/internal/adapters/http/view"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/internal/domain/types"
)

const htmlContentType = "text/html; charset=utf-8"

// DashboardHandler serves the dashboard page and its table fragment.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET / requests. Missing team and match fall back to the
// default team and its first match.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ctx := r.Context()

	teams, err := h.deps.Teams(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if sel.team == nil || !hasOption(teams, *sel.team) {
		sel.team = h.deps.DefaultTeam(teams)
	}
	var choice types.MatchChoice
	if sel.team != nil {
		if choice, err = h.deps.Matches(ctx, *sel.team); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
	}
	sel.match = resolveMatch(sel.match, choice)

	snap, err := h.deps.Snapshot(ctx, sel.query(), sel.heatmap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	params := sel.params()
	page := view.PageData{
		Selectors: view.SelectorData{
			Teams:   teams,
			Team:    sel.team,
			Matches: choice,
			Match:   sel.match,
			Stage:   sel.stage,
			Types:   sel.types.Names(),
			Heatmap: sel.heatmap,
			Sort:    string(sel.sort),
			Desc:    sel.desc,
		},
		Field:   view.FieldData{Transform: snap.Field.Transform, Overlay: snap.Field.Overlay, Heatmap: snap.Field.Heatmap},
		Table:   tableData(sel, snap.Events, params),
		Summary: snap.Summary,
		Params:  params,
	}
	render(w, r, op, "page", htmlContentType, view.Page(page))
}

// HandleTable handles GET /partials/table requests with the table fragment only.
func (h *DashboardHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	evs, err := h.deps.Events(r.Context(), sel.query())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	render(w, r, op, "table", htmlContentType, view.EventTable(tableData(sel, evs, sel.params())))
}

// HandleSummary handles GET /partials/summary requests with the statistics panel only.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary_panel"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sum, err := h.deps.Summary(r.Context(), sel.query())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	render(w, r, op, "summary", htmlContentType, view.SummaryPanel(sum))
}

func tableData(sel selection, evs []model.MatchEvent, params url.Values) view.TableData {
	return view.TableData{
		Rows:   types.Rows(evs),
		Params: params,
		Sort:   string(sel.sort),
		Desc:   sel.desc,
		Search: sel.search,
	}
}

func hasOption(opts []types.Option, v int) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

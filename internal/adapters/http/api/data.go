package api

import (
	"net/http"

	"github.com/okian/robopath/internal/domain/types"
)

// DataHandler serves the JSON read API.
type DataHandler struct {
	deps Dependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleTeams handles GET /api/teams requests.
func (h *DataHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if teams == nil {
		teams = []types.Option{}
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleMatches handles GET /api/matches?team=N requests.
func (h *DataHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	team, err := optionalInt(r.URL.Query(), "team")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if team == nil {
		writeJSON(w, http.StatusOK, types.MatchChoice{Options: []types.Option{}})
		return
	}
	choice, err := h.deps.Matches(r.Context(), *team)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if choice.Options == nil {
		choice.Options = []types.Option{}
	}
	writeJSON(w, http.StatusOK, choice)
}

// HandleEvents handles GET /api/events requests. Without a match the result is empty.
func (h *DataHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
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
	writeJSON(w, http.StatusOK, types.Rows(evs))
}

// HandleSummary handles GET /api/summary requests.
func (h *DataHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
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
	writeJSON(w, http.StatusOK, sum)
}

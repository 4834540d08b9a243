package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/robopath/internal/app"
	"github.com/okian/robopath/internal/domain/events"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/internal/domain/types"
)

// selection is the dashboard state carried in query parameters.
type selection struct {
	team    *int
	match   *int
	stage   model.Stage
	types   events.TypeSet
	search  string
	sort    events.SortField
	desc    bool
	heatmap bool
}

// parseSelection reads team, match, stage, types, q, sort, order and heatmap.
// An absent types parameter selects every type; a present but empty one selects none.
func parseSelection(values url.Values) (selection, error) {
	var (
		sel selection
		err error
	)
	if sel.team, err = optionalInt(values, "team"); err != nil {
		return sel, err
	}
	if sel.match, err = optionalInt(values, "match"); err != nil {
		return sel, err
	}
	if sel.stage, err = model.ParseStage(values.Get("stage")); err != nil {
		return sel, err
	}
	if raw, ok := values["types"]; ok {
		var names []string
		for _, v := range raw {
			names = append(names, strings.Split(v, ",")...)
		}
		sel.types = events.NewTypeSet(names...)
	}
	if sel.sort, err = events.ParseSortField(values.Get("sort")); err != nil {
		return sel, err
	}
	switch order := strings.ToLower(values.Get("order")); order {
	case "", "asc":
	case "desc":
		sel.desc = true
	default:
		return sel, fmt.Errorf("unknown order %q", order)
	}
	sel.search = strings.TrimSpace(values.Get("q"))
	switch values.Get("heatmap") {
	case "", "0", "false", "off":
	default:
		sel.heatmap = true
	}
	return sel, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &v, nil
}

// query converts the selection into a service query. Without a team nothing is selected.
func (s selection) query() service.Query {
	q := service.Query{
		Stage:  s.stage,
		Types:  s.types,
		Search: s.search,
		Sort:   s.sort,
		Desc:   s.desc,
	}
	if s.team != nil {
		q.Team = *s.team
		q.Match = s.match
	}
	return q
}

// params encodes the selection for links and image URLs. Sort order is left to the caller.
func (s selection) params() url.Values {
	v := url.Values{}
	if s.team != nil {
		v.Set("team", strconv.Itoa(*s.team))
	}
	if s.match != nil {
		v.Set("match", strconv.Itoa(*s.match))
	}
	v.Set("stage", string(s.stage))
	if s.types != nil {
		v.Set("types", strings.Join(s.types.Names(), ","))
	}
	if s.search != "" {
		v.Set("q", s.search)
	}
	if s.heatmap {
		v.Set("heatmap", "1")
	}
	return v
}

// resolveMatch keeps the requested match when the team has it, else takes the preselected one.
func resolveMatch(requested *int, choice types.MatchChoice) *int {
	if requested != nil {
		for _, o := range choice.Options {
			if o.Value == *requested {
				return requested
			}
		}
	}
	return choice.Value
}

package events

import (
	"sort"
	"strings"

	"github.com/okian/robopath/internal/domain/model"
)

// TypeSet is a set of selected event types. A nil set selects every type.
type TypeSet map[model.EventType]struct{}

// NewTypeSet builds a non-nil set from names. Blank names are skipped.
func NewTypeSet(names ...string) TypeSet {
	s := make(TypeSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s[model.EventType(n)] = struct{}{}
	}
	return s
}

// Has reports whether t is selected.
func (s TypeSet) Has(t model.EventType) bool {
	if s == nil {
		return true
	}
	_, ok := s[t]
	return ok
}

// Names returns the selected names in checklist order, followed by unknown names sorted.
func (s TypeSet) Names() []string {
	if s == nil {
		out := make([]string, 0, len(model.AllEventTypes()))
		for _, t := range model.AllEventTypes() {
			out = append(out, string(t))
		}
		return out
	}
	out := make([]string, 0, len(s))
	for _, t := range model.AllEventTypes() {
		if _, ok := s[t]; ok {
			out = append(out, string(t))
		}
	}
	var extra []string
	for t := range s {
		if !t.IsKnown() {
			extra = append(extra, string(t))
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Filter keeps the events whose type is selected, in their original order.
func Filter(evs []model.MatchEvent, set TypeSet) []model.MatchEvent {
	out := make([]model.MatchEvent, 0, len(evs))
	for _, e := range evs {
		if set.Has(e.Name) {
			out = append(out, e)
		}
	}
	return out
}

// Search keeps events whose name contains q, ignoring case. An empty q keeps everything.
func Search(evs []model.MatchEvent, q string) []model.MatchEvent {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return evs
	}
	out := make([]model.MatchEvent, 0, len(evs))
	for _, e := range evs {
		if strings.Contains(strings.ToLower(string(e.Name)), q) {
			out = append(out, e)
		}
	}
	return out
}

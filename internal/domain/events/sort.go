package events

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/robopath/internal/domain/model"
)

// SortField names a sortable table column.
type SortField string

// Sortable columns.
const (
	SortID   SortField = "id"
	SortName SortField = "name"
	SortX    SortField = "x"
	SortY    SortField = "y"
	SortTime SortField = "time"
)

// ParseSortField accepts the column ids used by the table, including npos.x and npos.y.
// An empty string sorts by id.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id":
		return SortID, nil
	case "name":
		return SortName, nil
	case "x", "npos.x":
		return SortX, nil
	case "y", "npos.y":
		return SortY, nil
	case "time":
		return SortTime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

func (f SortField) less(a, b model.MatchEvent) bool {
	switch f {
	case SortName:
		return a.Name < b.Name
	case SortX:
		return a.Pos.X < b.Pos.X
	case SortY:
		return a.Pos.Y < b.Pos.Y
	case SortTime:
		return a.Time < b.Time
	default:
		return a.ID < b.ID
	}
}

// Sort returns a stably sorted copy; ties keep their relative order in both directions.
func Sort(evs []model.MatchEvent, field SortField, desc bool) []model.MatchEvent {
	out := make([]model.MatchEvent, len(evs))
	copy(out, evs)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return field.less(out[j], out[i])
		}
		return field.less(out[i], out[j])
	})
	return out
}

// ViewOptions selects which events a view shows and in what order.
type ViewOptions struct {
	Types TypeSet
	Query string
	Sort  SortField
	Desc  bool
}

// Select applies Filter and Search and keeps array order, which is temporal order.
func Select(evs []model.MatchEvent, opts ViewOptions) []model.MatchEvent {
	return Search(Filter(evs, opts.Types), opts.Query)
}

// View applies Filter, Search and Sort in that order. The result order is also the
// order in which the path overlay connects events.
func View(evs []model.MatchEvent, opts ViewOptions) []model.MatchEvent {
	return Sort(Select(evs, opts), opts.Sort, opts.Desc)
}

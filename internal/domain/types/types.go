// Package types contains common types used across the application
package types

import (
	"sort"
	"strconv"

	"github.com/okian/robopath/internal/domain/model"
)

// Option is a dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// OptionsFromInts builds ascending options labelled with their values.
func OptionsFromInts(values []int) []Option {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	out := make([]Option, 0, len(sorted))
	for i, v := range sorted {
		if i > 0 && sorted[i-1] == v {
			continue
		}
		out = append(out, Option{Label: strconv.Itoa(v), Value: v})
	}
	return out
}

// MatchChoice is the match dropdown state for a team: its options and the preselected value.
type MatchChoice struct {
	Options []Option `json:"options"`
	Value   *int     `json:"value"`
}

// NewMatchChoice preselects the first option, or nothing when there are none.
func NewMatchChoice(opts []Option) MatchChoice {
	c := MatchChoice{Options: opts}
	if len(opts) > 0 {
		v := opts[0].Value
		c.Value = &v
	}
	return c
}

// EventRow is the flattened table row of a match event.
type EventRow struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	NormX float64 `json:"npos.x"`
	NormY float64 `json:"npos.y"`
	Time  float64 `json:"time"`
}

// Rows flattens events into table rows, keeping order.
func Rows(events []model.MatchEvent) []EventRow {
	out := make([]EventRow, len(events))
	for i, e := range events {
		out[i] = EventRow{ID: e.ID, Name: string(e.Name), NormX: e.Pos.X, NormY: e.Pos.Y, Time: e.Time}
	}
	return out
}

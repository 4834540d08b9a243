package view

import (
	"net/url"

	"github.com/okian/robopath/internal/domain/analysis"
	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/internal/domain/types"
)

// Brand is the navbar title.
const Brand = "Robot Path Analyzer"

// SelectorData is the state of the selector column.
type SelectorData struct {
	Teams   []types.Option
	Team    *int
	Matches types.MatchChoice
	Match   *int
	Stage   model.Stage
	// Types holds the checked event types.
	Types   []string
	Heatmap bool
	// Sort and Desc carry the table ordering across form submissions.
	Sort string
	Desc bool
}

func (d SelectorData) checked(name string) bool {
	for _, t := range d.Types {
		if t == name {
			return true
		}
	}
	return false
}

func (d SelectorData) order() string {
	if d.Desc {
		return "desc"
	}
	return "asc"
}

func isSelected(selected *int, v int) bool {
	return selected != nil && *selected == v
}

// PageData is everything the dashboard page shows.
type PageData struct {
	Selectors SelectorData
	Field     FieldData
	Table     TableData
	Summary   analysis.Summary
	// Params encodes the current selection for the chart image URL.
	Params url.Values
}

func (d PageData) timelineURL() string {
	return "/timeline.svg?" + d.Params.Encode()
}

type summaryItem struct {
	Label, Value string
}

func summaryItems(s analysis.Summary) []summaryItem {
	return []summaryItem{
		{"Events", itoa(s.Count)},
		{"Path length (px)", num(s.PathLength)},
		{"Duration (s)", num(s.Duration)},
		{"Average speed (px/s)", num(s.AvgSpeed)},
		{"Scored", itoa(s.Scored)},
		{"Missed", itoa(s.Missed)},
		{"Accuracy", num(s.Accuracy()*100) + "%"},
	}
}

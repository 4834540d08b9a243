package view

import (
	"net/url"

	"github.com/okian/robopath/internal/domain/types"
)

// Column is one event table column.
type Column struct {
	ID      string
	Name    string
	Numeric bool
}

// Columns lists the event table columns in display order.
var Columns = []Column{
	{ID: "id", Name: "Event ID", Numeric: true},
	{ID: "name", Name: "Event"},
	{ID: "npos.x", Name: "Normalized X Position", Numeric: true},
	{ID: "npos.y", Name: "Normalize Y Position", Numeric: true},
	{ID: "time", Name: "Time", Numeric: true},
}

// TableData is the event table state.
type TableData struct {
	Rows []types.EventRow
	// Params are the current request parameters; header links keep them and change the sort.
	Params url.Values
	Sort   string
	Desc   bool
	Search string
}

func (d TableData) sortLink(col string) string {
	v := url.Values{}
	for k, vs := range d.Params {
		v[k] = append([]string(nil), vs...)
	}
	v.Set("sort", col)
	order := "asc"
	if d.Sort == col && !d.Desc {
		order = "desc"
	}
	v.Set("order", order)
	return "?" + v.Encode()
}

func (d TableData) sortMark(col string) string {
	switch {
	case d.Sort != col:
		return ""
	case d.Desc:
		return " ▼"
	default:
		return " ▲"
	}
}

func rowCells(r types.EventRow) []string {
	return []string{itoa(r.ID), r.Name, decimal(r.NormX), decimal(r.NormY), decimal(r.Time)}
}

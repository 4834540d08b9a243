// Package view renders the dashboard HTML, the field diagram and the timeline chart.
// Components are written in .templ files; the _templ.go files are generated from them.
package view

//go:generate templ generate

import (
	"math"
	"strconv"
)

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// decimal formats a stored value exactly.
func decimal(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func itoa(v int) string { return strconv.Itoa(v) }

package field

import (
	"math"

	"github.com/okian/robopath/internal/domain/model"
)

// Cell is one heatmap bin. Col counts from the left and Row from the bottom, as in plot space.
type Cell struct {
	Col       int
	Row       int
	Count     int
	Intensity float64
}

// Heatmap counts events per grid cell of the normalized field.
type Heatmap struct {
	Cols  int
	Rows  int
	Max   int
	Cells []Cell
}

// BuildHeatmap bins event positions. Positions outside [0,1] are clamped to the edge cells.
// Only non-empty cells are returned, ordered by row then column.
func BuildHeatmap(evs []model.MatchEvent, cols, rows int) Heatmap {
	h := Heatmap{Cols: cols, Rows: rows, Cells: []Cell{}}
	if cols <= 0 || rows <= 0 {
		return h
	}

	counts := make([]int, cols*rows)
	for _, e := range evs {
		c := bin(e.Pos.X, cols)
		r := bin(1-e.Pos.Y, rows)
		counts[r*cols+c]++
	}
	for _, n := range counts {
		if n > h.Max {
			h.Max = n
		}
	}
	for i, n := range counts {
		if n == 0 {
			continue
		}
		h.Cells = append(h.Cells, Cell{
			Col:       i % cols,
			Row:       i / cols,
			Count:     n,
			Intensity: float64(n) / float64(h.Max),
		})
	}
	return h
}

func bin(v float64, n int) int {
	if math.IsNaN(v) {
		return 0
	}
	i := int(math.Floor(v * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// CellRect returns the plot-space corners of a cell: bottom-left and top-right.
func (t Transform) CellRect(h Heatmap, c Cell) (Point, Point) {
	w := t.Width / float64(h.Cols)
	ht := t.Height / float64(h.Rows)
	return Point{X: float64(c.Col) * w, Y: float64(c.Row) * ht},
		Point{X: float64(c.Col+1) * w, Y: float64(c.Row+1) * ht}
}

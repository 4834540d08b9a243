// Package field describes the 2024 field drawing and maps normalized event positions onto it.
//
// Shapes are stored in plot space: a 600x300 pixel frame with the y axis pointing up.
// Transform scales them to the configured size and flips y for SVG output.
package field

// Base field size in pixels; layout coordinates are expressed in this frame.
const (
	BaseWidth  = 600
	BaseHeight = 300
)

// Line colors used by the field drawing.
const (
	ColorMain       = "#000000"
	ColorCenterLine = "#666666"
	ColorRedWing    = "#6E260E"
	ColorBlueWing   = "#000099"
)

// ShapeKind selects how a shape's points are drawn.
type ShapeKind string

// Shape kinds.
const (
	ShapeRect ShapeKind = "rect"
	ShapeLine ShapeKind = "line"
	ShapePath ShapeKind = "path"
)

// Point is a location in plot space.
type Point struct {
	X float64
	Y float64
}

// Shape is one element of the field drawing. A rect is given by two opposite corners,
// a line by its ends, and a path by its vertices.
type Shape struct {
	Name   string
	Kind   ShapeKind
	Points []Point
	Closed bool
	Stroke string
	Fill   string
}

func pts(xy ...float64) []Point {
	out := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

// Layout returns the 2024 field drawing in the base frame.
func Layout() []Shape {
	return []Shape{
		{Name: "border", Kind: ShapeRect, Points: pts(15, 300, 590, 0), Stroke: ColorMain},
		{Name: "center-line", Kind: ShapeLine, Points: pts(305, 0, 305, 300), Stroke: ColorCenterLine},
		{Name: "red-wing-line", Kind: ShapeLine, Points: pts(387, 0, 387, 300), Stroke: ColorRedWing},
		{Name: "blue-wing-line", Kind: ShapeLine, Points: pts(221, 0, 221, 300), Stroke: ColorBlueWing},
		{
			Name: "blue-stage", Kind: ShapePath, Closed: true, Stroke: ColorBlueWing,
			Points: pts(218, 200, 209, 203, 127, 155, 127, 145, 209, 97, 218, 100),
		},
		{
			Name: "red-stage", Kind: ShapePath, Closed: true, Stroke: ColorRedWing,
			Points: pts(390, 200, 397, 203, 480, 155, 480, 145, 397, 97, 390, 100),
		},
		{
			Name: "blue-speaker", Kind: ShapePath, Closed: true, Stroke: ColorMain, Fill: ColorBlueWing,
			Points: pts(15, 160, 47, 180, 47, 220, 15, 240),
		},
		{
			Name: "red-speaker", Kind: ShapePath, Closed: true, Stroke: ColorMain, Fill: ColorRedWing,
			Points: pts(590, 160, 558, 180, 558, 220, 590, 240),
		},
		{Name: "blue-source", Kind: ShapePath, Stroke: ColorBlueWing, Points: pts(590, 60, 525, 20, 525, 0)},
		{Name: "red-source", Kind: ShapePath, Stroke: ColorRedWing, Points: pts(15, 60, 80, 20, 80, 0)},
		{Name: "blue-amp", Kind: ShapePath, Stroke: ColorBlueWing, Points: pts(15, 282, 127, 282, 127, 300)},
		{Name: "red-amp", Kind: ShapePath, Stroke: ColorRedWing, Points: pts(590, 282, 478, 282, 478, 300)},
	}
}

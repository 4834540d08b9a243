package field

import "github.com/okian/robopath/internal/domain/model"

// Transform maps between normalized positions, plot space and SVG space for a field of a given size.
type Transform struct {
	Width  float64
	Height float64
}

// NewTransform returns a transform for the given pixel size, falling back to the base size.
func NewTransform(width, height int) Transform {
	if width <= 0 || height <= 0 {
		return Transform{Width: BaseWidth, Height: BaseHeight}
	}
	return Transform{Width: float64(width), Height: float64(height)}
}

// ToPixel maps a normalized position into plot space: x grows right, y grows up.
func (t Transform) ToPixel(p model.Position) Point {
	return Point{X: p.X * t.Width, Y: (1 - p.Y) * t.Height}
}

// ToSVG flips a plot-space point so that y grows down.
func (t Transform) ToSVG(p Point) Point {
	return Point{X: p.X, Y: t.Height - p.Y}
}

// Scale maps a base-frame point to this transform's size.
func (t Transform) Scale(p Point) Point {
	return Point{X: p.X * t.Width / BaseWidth, Y: p.Y * t.Height / BaseHeight}
}

// SVGShapes returns the layout scaled to this size in SVG space.
func (t Transform) SVGShapes() []Shape {
	shapes := Layout()
	for i := range shapes {
		for j, p := range shapes[i].Points {
			shapes[i].Points[j] = t.ToSVG(t.Scale(p))
		}
	}
	return shapes
}

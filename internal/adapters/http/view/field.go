package view

import (
	"strings"

	"github.com/okian/robopath/internal/domain/field"
)

// Field drawing constants.
const (
	fieldBackground = "black"
	heatColor       = "#FFA500"
	heatMaxOpacity  = 0.7
	lineWidth       = "3"
	arrowWidth      = "2"
	markerRadius    = 7.5
)

// FieldData is what the field diagram shows.
type FieldData struct {
	Transform field.Transform
	Overlay   field.Overlay
	Heatmap   *field.Heatmap
}

func (d FieldData) viewBox() string {
	return "0 0 " + num(d.Transform.Width) + " " + num(d.Transform.Height)
}

// svgLine is a segment in SVG space.
type svgLine struct {
	X1, Y1, X2, Y2 string
}

func arrowLines(tr field.Transform, arrows []field.Arrow) []svgLine {
	out := make([]svgLine, 0, len(arrows))
	for _, a := range arrows {
		from, to := tr.ToSVG(a.From), tr.ToSVG(a.To)
		out = append(out, svgLine{X1: num(from.X), Y1: num(from.Y), X2: num(to.X), Y2: num(to.Y)})
	}
	return out
}

// svgMarker is an event marker in SVG space.
type svgMarker struct {
	CX, CY, Fill, Event, Title string
}

func eventMarkers(tr field.Transform, markers []field.Marker) []svgMarker {
	out := make([]svgMarker, 0, len(markers))
	for _, m := range markers {
		at := tr.ToSVG(m.At)
		out = append(out, svgMarker{
			CX:    num(at.X),
			CY:    num(at.Y),
			Fill:  m.Color,
			Event: string(m.Name),
			Title: "#" + itoa(m.ID) + " " + string(m.Name),
		})
	}
	return out
}

// heatRect is a heatmap cell in SVG space.
type heatRect struct {
	X, Y, W, H, Opacity string
	Count               int
}

func heatRects(tr field.Transform, hm field.Heatmap) []heatRect {
	out := make([]heatRect, 0, len(hm.Cells))
	for _, c := range hm.Cells {
		lo, hi := tr.CellRect(hm, c)
		top := tr.ToSVG(hi)
		out = append(out, heatRect{
			X:       num(lo.X),
			Y:       num(top.Y),
			W:       num(hi.X - lo.X),
			H:       num(hi.Y - lo.Y),
			Opacity: num(c.Intensity * heatMaxOpacity),
			Count:   c.Count,
		})
	}
	return out
}

// svgRect is a rectangle given by its top left corner and size.
type svgRect struct {
	X, Y, W, H string
}

func shapeRect(s field.Shape) svgRect {
	a, b := s.Points[0], s.Points[1]
	return svgRect{
		X: num(min(a.X, b.X)),
		Y: num(min(a.Y, b.Y)),
		W: num(max(a.X, b.X) - min(a.X, b.X)),
		H: num(max(a.Y, b.Y) - min(a.Y, b.Y)),
	}
}

func shapeLine(s field.Shape) svgLine {
	return svgLine{X1: num(s.Points[0].X), Y1: num(s.Points[0].Y), X2: num(s.Points[1].X), Y2: num(s.Points[1].Y)}
}

func shapeFill(s field.Shape) string {
	if s.Fill == "" {
		return "none"
	}
	return s.Fill
}

// pathData is the d attribute for a polyline or polygon shape.
func pathData(s field.Shape) string {
	var d strings.Builder
	for i, p := range s.Points {
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(num(p.X) + " " + num(p.Y))
	}
	if s.Closed {
		d.WriteString(" Z")
	}
	return d.String()
}

package field_test

import (
	"testing"

	"github.com/okian/robopath/internal/domain/field"
	"github.com/okian/robopath/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(id int, name model.EventType, x, y float64) model.MatchEvent {
	return model.MatchEvent{ID: id, Name: name, Pos: model.Position{X: x, Y: y}}
}

func TestLayout(t *testing.T) {
	Convey("Given the field layout", t, func() {
		shapes := field.Layout()
		byName := map[string]field.Shape{}
		for _, s := range shapes {
			byName[s.Name] = s
		}

		Convey("Then it holds the field elements", func() {
			So(len(shapes), ShouldEqual, 12)
			So(byName["border"].Kind, ShouldEqual, field.ShapeRect)
			So(byName["center-line"].Points[0].X, ShouldEqual, 305.0)
			So(byName["center-line"].Stroke, ShouldEqual, "#666666")
			So(byName["red-wing-line"].Points[0].X, ShouldEqual, 387.0)
			So(byName["blue-wing-line"].Points[0].X, ShouldEqual, 221.0)
			So(byName["blue-speaker"].Fill, ShouldEqual, field.ColorBlueWing)
			So(byName["red-speaker"].Fill, ShouldEqual, field.ColorRedWing)
			So(byName["blue-stage"].Closed, ShouldBeTrue)
			So(byName["red-source"].Closed, ShouldBeFalse)
			So(len(byName["red-stage"].Points), ShouldEqual, 6)
		})

		Convey("Then each call returns a fresh copy", func() {
			shapes[0].Points[0].X = -1
			So(field.Layout()[0].Points[0].X, ShouldEqual, 15.0)
		})
	})
}

func TestTransform(t *testing.T) {
	Convey("Given the base transform", t, func() {
		tr := field.NewTransform(600, 300)

		Convey("Then normalized positions map with y pointing up", func() {
			p := tr.ToPixel(model.Position{X: 0.5, Y: 0.25})
			So(p.X, ShouldEqual, 300.0)
			So(p.Y, ShouldEqual, 225.0)
		})

		Convey("Then SVG space flips y back", func() {
			p := tr.ToSVG(tr.ToPixel(model.Position{X: 0.5, Y: 0.25}))
			So(p.Y, ShouldEqual, 75.0)
		})

		Convey("Then layout shapes keep their x and flip their y", func() {
			border := tr.SVGShapes()[0]
			So(border.Points[0], ShouldResemble, field.Point{X: 15, Y: 0})
			So(border.Points[1], ShouldResemble, field.Point{X: 590, Y: 300})
		})
	})

	Convey("Given a doubled transform", t, func() {
		tr := field.NewTransform(1200, 600)
		So(tr.Scale(field.Point{X: 305, Y: 150}), ShouldResemble, field.Point{X: 610, Y: 300})
	})

	Convey("Given an invalid size", t, func() {
		tr := field.NewTransform(0, 0)
		So(tr.Width, ShouldEqual, 600.0)
		So(tr.Height, ShouldEqual, 300.0)
	})
}

func TestOverlay(t *testing.T) {
	Convey("Given events in view order", t, func() {
		tr := field.NewTransform(600, 300)
		evs := []model.MatchEvent{
			ev(0, model.EventInit, 0.1, 0.1),
			ev(1, model.EventMove, 0.2, 0.2),
			ev(2, model.EventScoreSpeaker, 0.05, 0.5),
			ev(3, model.EventType("climb"), 0.5, 0.5),
		}
		o := tr.BuildOverlay(evs)

		Convey("Then arrows join consecutive events", func() {
			So(len(o.Arrows), ShouldEqual, 3)
			So(o.Arrows[0].From, ShouldResemble, tr.ToPixel(evs[0].Pos))
			So(o.Arrows[0].To, ShouldResemble, tr.ToPixel(evs[1].Pos))
			So(o.Arrows[2].To, ShouldResemble, tr.ToPixel(evs[3].Pos))
		})

		Convey("Then move events get no marker", func() {
			So(len(o.Markers), ShouldEqual, 3)
			So(o.Markers[0].Color, ShouldEqual, "cyan")
			So(o.Markers[1].Color, ShouldEqual, "#00FF00")
			So(o.Markers[2].Color, ShouldEqual, field.UnknownColor)
			So(o.Markers[2].ID, ShouldEqual, 3)
		})
	})

	Convey("Given a single event", t, func() {
		o := field.NewTransform(600, 300).BuildOverlay([]model.MatchEvent{ev(0, model.EventDrop, 0.5, 0.5)})
		So(len(o.Arrows), ShouldEqual, 0)
		So(len(o.Markers), ShouldEqual, 1)
		So(o.Markers[0].Color, ShouldEqual, "black")
	})

	Convey("Given the color table", t, func() {
		So(field.Color(model.EventMissSpeaker), ShouldEqual, "red")
		So(field.Color(model.EventScoreAmp), ShouldEqual, "blue")
		So(field.Color(model.EventMissAmp), ShouldEqual, "purple")
		So(field.Color(model.EventMove), ShouldEqual, "white")
		So(field.Color(model.EventPickup), ShouldEqual, "orange")
	})
}

func TestHeatmap(t *testing.T) {
	Convey("Given events on a 2x2 grid", t, func() {
		evs := []model.MatchEvent{
			ev(0, model.EventMove, 0.1, 0.9),
			ev(1, model.EventMove, 0.2, 0.8),
			ev(2, model.EventMove, 0.9, 0.1),
			ev(3, model.EventMove, 1.5, -0.2),
		}
		h := field.BuildHeatmap(evs, 2, 2)

		Convey("Then counts land in plot-space cells", func() {
			So(h.Max, ShouldEqual, 2)
			So(len(h.Cells), ShouldEqual, 2)
			So(h.Cells[0], ShouldResemble, field.Cell{Col: 0, Row: 0, Count: 2, Intensity: 1})
			So(h.Cells[1], ShouldResemble, field.Cell{Col: 1, Row: 1, Count: 2, Intensity: 1})
		})

		Convey("Then cell rects cover the field", func() {
			lo, hi := field.NewTransform(600, 300).CellRect(h, h.Cells[1])
			So(lo, ShouldResemble, field.Point{X: 300, Y: 150})
			So(hi, ShouldResemble, field.Point{X: 600, Y: 300})
		})
	})

	Convey("Given an empty grid", t, func() {
		h := field.BuildHeatmap([]model.MatchEvent{ev(0, model.EventMove, 0.5, 0.5)}, 0, 3)
		So(len(h.Cells), ShouldEqual, 0)
		So(h.Max, ShouldEqual, 0)
	})
}

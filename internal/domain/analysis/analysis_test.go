package analysis_test

import (
	"math"
	"testing"

	"github.com/okian/robopath/internal/domain/analysis"
	"github.com/okian/robopath/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(id int, name model.EventType, x, y, t float64) model.MatchEvent {
	return model.MatchEvent{ID: id, Name: name, Pos: model.Position{X: x, Y: y}, Time: t}
}

func TestDistance(t *testing.T) {
	Convey("Given two normalized positions", t, func() {
		p0 := model.Position{X: 0, Y: 0}
		p1 := model.Position{X: 0.3, Y: 0.4}

		So(analysis.Distance(p0, p1), ShouldAlmostEqual, 0.5, 1e-9)
		So(analysis.Distance(p1, p0), ShouldAlmostEqual, 0.5, 1e-9)
		So(analysis.Distance(p1, p1), ShouldEqual, 0.0)
		So(analysis.EventDistance(ev(0, model.EventMove, 0, 0, 0), ev(1, model.EventMove, 0.3, 0.4, 1)), ShouldAlmostEqual, 0.5, 1e-9)
	})
}

func TestScaled(t *testing.T) {
	Convey("Given the default analyzer", t, func() {
		a := analysis.New()

		Convey("Then axes are scaled to the 600x300 field", func() {
			So(a.ScaledDistance(model.Position{}, model.Position{X: 0.5}), ShouldAlmostEqual, 300.0, 1e-9)
			So(a.ScaledDistance(model.Position{}, model.Position{Y: 1}), ShouldAlmostEqual, 300.0, 1e-9)
		})
	})

	Convey("Given a custom field size", t, func() {
		a := analysis.New(analysis.WithFieldSize(100, 100))
		So(a.ScaledDistance(model.Position{}, model.Position{X: 0.3, Y: 0.4}), ShouldAlmostEqual, 50.0, 1e-9)

		Convey("And invalid sizes are ignored", func() {
			b := analysis.New(analysis.WithFieldSize(0, 10))
			So(b.ScaledDistance(model.Position{}, model.Position{X: 1}), ShouldAlmostEqual, 600.0, 1e-9)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given a short path", t, func() {
		a := analysis.New(analysis.WithFieldSize(100, 100))
		evs := []model.MatchEvent{
			ev(0, model.EventInit, 0, 0, 1),
			ev(1, model.EventMove, 0.3, 0.4, 2),
			ev(2, model.EventScoreSpeaker, 0.3, 0.0, 3),
			ev(3, model.EventMissAmp, 0.3, 0.0, 5),
		}

		s := a.Summarize(evs)

		Convey("Then counts, length and timing are aggregated", func() {
			So(s.Count, ShouldEqual, 4)
			So(s.CountByType["move"], ShouldEqual, 1)
			So(s.CountByType["init"], ShouldEqual, 1)
			So(s.Scored, ShouldEqual, 1)
			So(s.Missed, ShouldEqual, 1)
			So(s.Accuracy(), ShouldEqual, 0.5)
			So(s.PathLength, ShouldAlmostEqual, 90.0, 1e-9)
			So(s.Start, ShouldEqual, 1.0)
			So(s.End, ShouldEqual, 5.0)
			So(s.Duration, ShouldEqual, 4.0)
			So(s.AvgSpeed, ShouldAlmostEqual, 22.5, 1e-9)
		})
	})

	Convey("Given no events", t, func() {
		s := analysis.New().Summarize(nil)
		So(s.Count, ShouldEqual, 0)
		So(s.CountByType, ShouldNotBeNil)
		So(s.Accuracy(), ShouldEqual, 0.0)
		So(math.IsNaN(s.AvgSpeed), ShouldBeFalse)
	})
}

func TestCumulative(t *testing.T) {
	Convey("Given a path", t, func() {
		a := analysis.New(analysis.WithFieldSize(100, 100))
		times, dists := a.Cumulative([]model.MatchEvent{
			ev(0, model.EventInit, 0, 0, 0),
			ev(1, model.EventMove, 0.3, 0.4, 2),
			ev(2, model.EventMove, 0.3, 0.0, 3),
		})

		So(times, ShouldResemble, []float64{0, 2, 3})
		So(len(dists), ShouldEqual, 3)
		So(dists[0], ShouldEqual, 0.0)
		So(dists[1], ShouldAlmostEqual, 50.0, 1e-9)
		So(dists[2], ShouldAlmostEqual, 90.0, 1e-9)
	})
}

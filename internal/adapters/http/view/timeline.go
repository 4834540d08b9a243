package view

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Timeline chart size in pixels.
const (
	timelineWidth  = 600
	timelineHeight = 220
)

// timelineChart plots cumulative path length against match time. go-chart needs a
// non-empty series and non-degenerate ranges, so short inputs are padded.
func timelineChart(times, distances []float64) chart.Chart {
	xs := append([]float64(nil), times...)
	ys := append([]float64(nil), distances...)
	switch len(xs) {
	case 0:
		xs, ys = []float64{0, 1}, []float64{0, 0}
	case 1:
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
	}

	xMin, xMax := xs[0], xs[0]
	yMax := 0.0
	for i := range xs {
		xMin = min(xMin, xs[i])
		xMax = max(xMax, xs[i])
		yMax = max(yMax, ys[i])
	}
	if xMax <= xMin {
		xMax = xMin + 1
	}
	if yMax <= 0 {
		yMax = 1
	}

	return chart.Chart{
		Width:      timelineWidth,
		Height:     timelineHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 10}},
		XAxis:      chart.XAxis{Name: "Time (s)", Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis:      chart.YAxis{Name: "Path (px)", Range: &chart.ContinuousRange{Min: 0, Max: yMax}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Path length",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("0047AB"),
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    drawing.ColorFromHex("0047AB"),
				},
			},
		},
	}
}

// TimelineSVG writes the timeline chart as SVG.
func TimelineSVG(w io.Writer, times, distances []float64) error {
	c := timelineChart(times, distances)
	return c.Render(chart.SVG, w)
}

// TimelinePNG writes the timeline chart as PNG.
func TimelinePNG(w io.Writer, times, distances []float64) error {
	c := timelineChart(times, distances)
	return c.Render(chart.PNG, w)
}

// Package analysis measures robot paths built from match events.
package analysis

import (
	"math"

	"github.com/okian/robopath/internal/domain/model"
)

// Default field size in pixels.
const (
	defaultWidth  = 600
	defaultHeight = 300
)

// Distance is the Euclidean distance between two normalized positions.
func Distance(p0, p1 model.Position) float64 {
	return math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
}

// EventDistance is the distance between the positions of two events.
func EventDistance(e0, e1 model.MatchEvent) float64 {
	return Distance(e0.Pos, e1.Pos)
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithFieldSize sets the pixel size used by scaled measurements.
func WithFieldSize(width, height int) Option {
	return func(a *Analyzer) {
		if width > 0 && height > 0 {
			a.width = float64(width)
			a.height = float64(height)
		}
	}
}

// Analyzer measures paths in field pixels.
type Analyzer struct {
	width  float64
	height float64
}

// New creates an Analyzer for a 600x300 field unless overridden.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScaledDistance measures the distance between two positions in pixels.
func (a *Analyzer) ScaledDistance(p0, p1 model.Position) float64 {
	return math.Hypot((p1.X-p0.X)*a.width, (p1.Y-p0.Y)*a.height)
}

// ScaledEventDistance measures the distance between two events in pixels.
func (a *Analyzer) ScaledEventDistance(e0, e1 model.MatchEvent) float64 {
	return a.ScaledDistance(e0.Pos, e1.Pos)
}

// PathLength sums the pixel distances between consecutive events.
func (a *Analyzer) PathLength(evs []model.MatchEvent) float64 {
	var total float64
	for i := 1; i < len(evs); i++ {
		total += a.ScaledEventDistance(evs[i-1], evs[i])
	}
	return total
}

// Summary aggregates a path.
type Summary struct {
	Count       int            `json:"count"`
	CountByType map[string]int `json:"count_by_type"`
	Scored      int            `json:"scored"`
	Missed      int            `json:"missed"`
	PathLength  float64        `json:"path_length"`
	Start       float64        `json:"start"`
	End         float64        `json:"end"`
	Duration    float64        `json:"duration"`
	AvgSpeed    float64        `json:"avg_speed"`
}

// Accuracy is the share of scoring attempts that scored, or 0 without attempts.
func (s Summary) Accuracy() float64 {
	attempts := s.Scored + s.Missed
	if attempts == 0 {
		return 0
	}
	return float64(s.Scored) / float64(attempts)
}

// Summarize aggregates events in the order given.
func (a *Analyzer) Summarize(evs []model.MatchEvent) Summary {
	s := Summary{CountByType: make(map[string]int)}
	if len(evs) == 0 {
		return s
	}

	s.Count = len(evs)
	s.Start, s.End = evs[0].Time, evs[0].Time
	for _, e := range evs {
		s.CountByType[string(e.Name)]++
		switch e.Name {
		case model.EventScoreSpeaker, model.EventScoreAmp:
			s.Scored++
		case model.EventMissSpeaker, model.EventMissAmp:
			s.Missed++
		}
		s.Start = math.Min(s.Start, e.Time)
		s.End = math.Max(s.End, e.Time)
	}

	s.PathLength = a.PathLength(evs)
	s.Duration = s.End - s.Start
	if s.Duration > 0 {
		s.AvgSpeed = s.PathLength / s.Duration
	}
	return s
}

// Cumulative returns each event's time and the path length travelled up to it.
func (a *Analyzer) Cumulative(evs []model.MatchEvent) (times, distances []float64) {
	times = make([]float64, len(evs))
	distances = make([]float64, len(evs))
	var total float64
	for i, e := range evs {
		if i > 0 {
			total += a.ScaledEventDistance(evs[i-1], e)
		}
		times[i] = e.Time
		distances[i] = total
	}
	return times, distances
}

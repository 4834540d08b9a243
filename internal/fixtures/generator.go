package fixtures

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/okian/robopath/internal/domain/events"
	"github.com/okian/robopath/internal/domain/model"
)

// Generation constants.
const (
	maxTeam     = 9999
	autoLength  = 15.0  // seconds
	teleLength  = 135.0 // seconds
	stepSigma   = 0.08  // random walk step, normalized units
	edgeMargin  = 0.02
	matchSpread = 3 // match numbers are drawn from 1..Matches*matchSpread
)

// weightedType is an event type and its relative frequency after init.
type weightedType struct {
	name   model.EventType
	weight int
}

var typeWeights = []weightedType{
	{model.EventMove, 40},
	{model.EventPickup, 20},
	{model.EventDrop, 5},
	{model.EventScoreSpeaker, 15},
	{model.EventMissSpeaker, 7},
	{model.EventScoreAmp, 8},
	{model.EventMissAmp, 5},
}

// Generator draws match rows from a seeded source.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// NewGenerator returns a generator for cfg.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := uint64(cfg.Seed)
	return &Generator{cfg: cfg, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
}

// Rows returns Teams x Matches rows with encoded Auto and Teleop event lists.
func (g *Generator) Rows() ([]model.MatchRow, error) {
	teams := g.distinct(g.cfg.Teams, maxTeam)
	rows := make([]model.MatchRow, 0, len(teams)*g.cfg.Matches)
	for _, team := range teams {
		for _, match := range g.distinct(g.cfg.Matches, g.cfg.Matches*matchSpread) {
			auto, err := events.Encode(g.EventList(g.cfg.AutoEvents, model.StageAuto))
			if err != nil {
				return nil, err
			}
			tele, err := events.Encode(g.EventList(g.cfg.TeleEvents, model.StageTeleop))
			if err != nil {
				return nil, err
			}
			rows = append(rows, model.MatchRow{Team: team, Match: match, AutoEvents: auto, TeleEvents: tele})
		}
	}
	return rows, nil
}

// EventList returns n events of a random walk. Auto lists open with init near a wall;
// times increase and stay within the stage length.
func (g *Generator) EventList(n int, stage model.Stage) []model.MatchEvent {
	out := make([]model.MatchEvent, 0, n)
	if n == 0 {
		return out
	}
	length := autoLength
	if stage == model.StageTeleop {
		length = teleLength
	}
	meanGap := length / float64(n+1)

	pos := g.startPosition()
	t := 0.0
	for i := 0; i < n; i++ {
		name := g.pickType()
		if i == 0 && stage == model.StageAuto {
			name = model.EventInit
		} else {
			pos = g.step(pos)
			t = math.Min(length, t+meanGap*(0.5+g.rng.Float64()))
		}
		out = append(out, model.MatchEvent{ID: i, Name: name, Pos: pos, Time: round(t, 2)})
	}
	return out
}

func (g *Generator) startPosition() model.Position {
	x := edgeMargin + g.rng.Float64()*0.08
	if g.rng.IntN(2) == 1 {
		x = 1 - x
	}
	return model.Position{X: round(x, 4), Y: round(0.2+g.rng.Float64()*0.6, 4)}
}

func (g *Generator) step(p model.Position) model.Position {
	return model.Position{
		X: round(clamp(p.X+g.rng.NormFloat64()*stepSigma), 4),
		Y: round(clamp(p.Y+g.rng.NormFloat64()*stepSigma), 4),
	}
}

func (g *Generator) pickType() model.EventType {
	total := 0
	for _, w := range typeWeights {
		total += w.weight
	}
	r := g.rng.IntN(total)
	for _, w := range typeWeights {
		if r < w.weight {
			return w.name
		}
		r -= w.weight
	}
	return model.EventMove
}

// distinct returns n distinct ascending integers from 1..upper.
func (g *Generator) distinct(n, upper int) []int {
	if n > upper {
		n = upper
	}
	seen := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n {
		v := 1 + g.rng.IntN(upper)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func clamp(v float64) float64 {
	return math.Max(edgeMargin, math.Min(1-edgeMargin, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

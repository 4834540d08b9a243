package field

import "github.com/okian/robopath/internal/domain/model"

// ArrowColor is the stroke of path arrows.
const ArrowColor = "rgb(150,150,150)"

// UnknownColor marks event types without a dedicated color.
const UnknownColor = "gray"

var eventColors = map[model.EventType]string{
	model.EventScoreSpeaker: "#00FF00",
	model.EventMissSpeaker:  "red",
	model.EventScoreAmp:     "blue",
	model.EventMissAmp:      "purple",
	model.EventMove:         "white",
	model.EventPickup:       "orange",
	model.EventDrop:         "black",
	model.EventInit:         "cyan",
}

// Color returns the marker color for an event type.
func Color(t model.EventType) string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return UnknownColor
}

// Arrow connects two consecutive events, pointing at the later one.
type Arrow struct {
	From Point
	To   Point
}

// Marker highlights a non-move event.
type Marker struct {
	At    Point
	Name  model.EventType
	Color string
	ID    int
}

// Overlay is the path drawn over the field, in plot space.
type Overlay struct {
	Arrows  []Arrow
	Markers []Marker
}

// BuildOverlay draws one arrow per consecutive pair in the order given and one marker per
// event that is not a move.
func (t Transform) BuildOverlay(evs []model.MatchEvent) Overlay {
	o := Overlay{Arrows: []Arrow{}, Markers: []Marker{}}
	for i := 0; i+1 < len(evs); i++ {
		o.Arrows = append(o.Arrows, Arrow{From: t.ToPixel(evs[i].Pos), To: t.ToPixel(evs[i+1].Pos)})
	}
	for _, e := range evs {
		if e.Name == model.EventMove {
			continue
		}
		o.Markers = append(o.Markers, Marker{At: t.ToPixel(e.Pos), Name: e.Name, Color: Color(e.Name), ID: e.ID})
	}
	return o
}

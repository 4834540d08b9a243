// Package events decodes stored event lists and derives the table view from them.
package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/robopath/internal/domain/model"
)

// storedEvent is the shape of one element of an event list column.
type storedEvent struct {
	Name string         `json:"name"`
	Pos  model.Position `json:"npos"`
	Time float64        `json:"time"`
}

// Decode parses a JSON event list. IDs are array indices, so order and count are preserved.
// Empty input and a JSON null yield an empty list.
func Decode(raw []byte) ([]model.MatchEvent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.MatchEvent{}, nil
	}

	var stored []storedEvent
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out := make([]model.MatchEvent, len(stored))
	for i, s := range stored {
		out[i] = model.MatchEvent{
			ID:   i,
			Name: model.EventType(s.Name),
			Pos:  s.Pos,
			Time: s.Time,
		}
	}
	return out, nil
}

// Encode renders events in the stored column format. IDs are not written.
func Encode(evs []model.MatchEvent) ([]byte, error) {
	stored := make([]storedEvent, len(evs))
	for i, e := range evs {
		stored[i] = storedEvent{Name: string(e.Name), Pos: e.Pos, Time: e.Time}
	}
	return json.Marshal(stored)
}

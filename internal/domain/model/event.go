// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// EventType names a discrete robot action recorded by scouts.
type EventType string

// Event types recorded in the event list columns.
const (
	EventMove         EventType = "move"
	EventPickup       EventType = "pickup"
	EventDrop         EventType = "drop"
	EventScoreSpeaker EventType = "scoreSpeaker"
	EventMissSpeaker  EventType = "missSpeaker"
	EventScoreAmp     EventType = "scoreAmp"
	EventMissAmp      EventType = "missAmp"
	EventInit         EventType = "init"
)

var allEventTypes = []EventType{
	EventMove, EventPickup, EventDrop, EventScoreSpeaker,
	EventMissSpeaker, EventScoreAmp, EventMissAmp, EventInit,
}

// AllEventTypes returns every known event type in checklist order.
func AllEventTypes() []EventType {
	out := make([]EventType, len(allEventTypes))
	copy(out, allEventTypes)
	return out
}

// IsKnown reports whether t is one of the recorded event types.
func (t EventType) IsKnown() bool {
	for _, k := range allEventTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Stage is the match period an event list belongs to.
type Stage string

// Match stages.
const (
	StageAuto   Stage = "Auto"
	StageTeleop Stage = "Teleop"
)

// Stages returns the selectable stages in display order.
func Stages() []Stage { return []Stage{StageAuto, StageTeleop} }

// ParseStage parses a stage name case-insensitively. An empty string means Auto.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StageAuto, nil
	case "teleop", "tele":
		return StageTeleop, nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Column returns the match table column holding this stage's event list.
func (s Stage) Column() string {
	if s == StageTeleop {
		return "TeleEventList"
	}
	return "AutoEventList"
}

// Position is a normalized field position; both axes run from 0 to 1.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MatchEvent is one entry of an event list. ID is the index in the stored array.
type MatchEvent struct {
	ID   int       `json:"id"`
	Name EventType `json:"name"`
	Pos  Position  `json:"npos"`
	Time float64   `json:"time"`
}

// MatchKey identifies a match row.
type MatchKey struct {
	Team  int
	Match int
}

func (k MatchKey) String() string { return fmt.Sprintf("%d/%d", k.Team, k.Match) }

// MatchRow is a row of the match table. Event lists are raw JSON text and may be empty.
type MatchRow struct {
	Team       int
	Match      int
	AutoEvents []byte
	TeleEvents []byte
}

// Key returns the row's match key.
func (r MatchRow) Key() MatchKey { return MatchKey{Team: r.Team, Match: r.Match} }

// EventListKey identifies one event list column: a match and a stage.
type EventListKey struct {
	Team  int
	Match int
	Stage Stage
}

func (k EventListKey) String() string {
	return fmt.Sprintf("%d/%d/%s", k.Team, k.Match, k.Stage)
}

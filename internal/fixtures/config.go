// Package fixtures generates synthetic match tables for demos and tests.
package fixtures

import (
	"errors"
	"fmt"
	"time"
)

// Default generation sizes.
const (
	DefaultTeams      = 8
	DefaultMatches    = 6
	DefaultAutoEvents = 8
	DefaultTeleEvents = 40
)

// ErrInvalidConfig is returned for non-positive sizes.
var ErrInvalidConfig = errors.New("invalid fixture config")

// Config controls what Generate produces.
type Config struct {
	Teams      int   // distinct team numbers
	Matches    int   // matches per team
	AutoEvents int   // events per Auto list, including init
	TeleEvents int   // events per Teleop list
	Seed       int64 // equal seeds give equal tables
}

// DefaultConfig returns a small demo table.
func DefaultConfig() Config {
	return Config{
		Teams:      DefaultTeams,
		Matches:    DefaultMatches,
		AutoEvents: DefaultAutoEvents,
		TeleEvents: DefaultTeleEvents,
		Seed:       1,
	}
}

// Validate rejects sizes the generator cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Teams <= 0 || c.Teams > maxTeam:
		return fmt.Errorf("%w: teams must be in 1..%d", ErrInvalidConfig, maxTeam)
	case c.Matches <= 0:
		return fmt.Errorf("%w: matches must be positive", ErrInvalidConfig)
	case c.AutoEvents < 0 || c.TeleEvents < 0:
		return fmt.Errorf("%w: event counts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Stats summarizes a seeding run.
type Stats struct {
	RunID    string
	Rows     int
	Events   int
	Duration time.Duration
}

// Package repository provides read and write access to the match event table.
package repository

import (
	"context"

	"github.com/okian/robopath/internal/domain/model"
)

// Store provides read access to the match table.
type Store interface {
	// Teams returns every distinct team number in ascending order.
	Teams(ctx context.Context) ([]int, error)

	// Matches returns the distinct match numbers recorded for a team in ascending order.
	Matches(ctx context.Context, team int) ([]int, error)

	// EventList returns the raw event list column for a match and stage.
	// A NULL column yields nil. Returns ErrNotFound if no row matches.
	EventList(ctx context.Context, team, match int, stage model.Stage) ([]byte, error)

	// Close releases the underlying connections.
	Close() error
}

// Writer creates the match table and stores rows. Used by tooling and tests.
type Writer interface {
	EnsureSchema(ctx context.Context) error
	PutMatch(ctx context.Context, row model.MatchRow) error
}

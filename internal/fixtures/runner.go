package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/robopath/internal/adapters/repository"
	"github.com/okian/robopath/pkg/logger"
)

// Seed creates the match table when missing and writes a generated table into it.
// Existing rows for the generated (team, match) pairs are replaced.
func Seed(ctx context.Context, w repository.Writer, cfg Config) (Stats, error) {
	stats := Stats{RunID: uuid.NewString()}
	start := time.Now()
	log := logger.Get().Named("fixtures")

	gen, err := NewGenerator(cfg)
	if err != nil {
		return stats, err
	}
	log.Info(ctx, "seeding match table",
		logger.String("run", stats.RunID),
		logger.Int("teams", cfg.Teams),
		logger.Int("matches", cfg.Matches),
		logger.Int64("seed", cfg.Seed))

	if err := w.EnsureSchema(ctx); err != nil {
		return stats, fmt.Errorf("ensure schema: %w", err)
	}
	rows, err := gen.Rows()
	if err != nil {
		return stats, fmt.Errorf("generate rows: %w", err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := w.PutMatch(ctx, row); err != nil {
			return stats, fmt.Errorf("put %s: %w", row.Key(), err)
		}
		stats.Rows++
		stats.Events += cfg.AutoEvents + cfg.TeleEvents
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "seeded match table",
		logger.String("run", stats.RunID),
		logger.Int("rows", stats.Rows),
		logger.Int("events", stats.Events),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

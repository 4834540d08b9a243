// Command seed writes a synthetic match table for the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	repository "github.com/okian/robopath/internal/adapters/repository"
	"github.com/okian/robopath/internal/fixtures"
	"github.com/okian/robopath/pkg/logger"
)

const usage = `Robot Path Analyzer seed tool
=============================

Writes a match table of random-walk event lists. Rows for the generated
(team, match) pairs are replaced, other rows are kept.

Usage:
  go run ./cmd/seed [options]

Options:
  -db string           database DSN; a file path for sqlite (default "data_2024.db")
  -driver string       sqlite or pgx (default "sqlite")
  -table string        match table name (default "match")
  -teams int           number of teams (default 8)
  -matches int         matches per team (default 6)
  -auto-events int     events per Auto list (default 8)
  -tele-events int     events per Teleop list (default 40)
  -seed int            random seed; equal seeds give equal tables (default 1)
  -log-level string    debug, info, warn or error (default "info")

Examples:
  go run ./cmd/seed -teams 20 -matches 12
  go run ./cmd/seed -driver pgx -db postgres://robopath@localhost/robopath
`

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("seed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	def := fixtures.DefaultConfig()
	var (
		dsn        = flag.String("db", "data_2024.db", "database DSN")
		driver     = flag.String("driver", repository.DriverSQLite, "database driver: sqlite or pgx")
		table      = flag.String("table", "match", "match table name")
		teams      = flag.Int("teams", def.Teams, "number of teams")
		matches    = flag.Int("matches", def.Matches, "matches per team")
		autoEvents = flag.Int("auto-events", def.AutoEvents, "events per Auto list")
		teleEvents = flag.Int("tele-events", def.TeleEvents, "events per Teleop list")
		seed       = flag.Int64("seed", def.Seed, "random seed")
		logLevel   = flag.String("log-level", "info", "log level")
	)
	flag.Usage = func() { _, _ = os.Stderr.WriteString(usage) }
	flag.Parse()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.Get().Named("seed")

	store, err := repository.Open(ctx, *driver, *dsn, repository.WithTable(*table))
	if err != nil {
		return fmt.Errorf("open %s database: %w", *driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "closing database", logger.Error(err))
		}
	}()

	stats, err := fixtures.Seed(ctx, store, fixtures.Config{
		Teams:      *teams,
		Matches:    *matches,
		AutoEvents: *autoEvents,
		TeleEvents: *teleEvents,
		Seed:       *seed,
	})
	if err != nil {
		log.Error(ctx, "seeding failed", logger.String("run", stats.RunID), logger.Int("rows", stats.Rows), logger.Error(err))
		return err
	}
	log.Info(ctx, "done", logger.String("dsn", *dsn), logger.Int("rows", stats.Rows))
	return nil
}

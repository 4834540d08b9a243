package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	// database/sql drivers: "sqlite" and "pgx".
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/pkg/metrics"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Column names of the match table.
const (
	colTeam  = "Team"
	colMatch = "Match"
)

// Query kinds used as metric labels.
const (
	kindTeams     = "teams"
	kindMatches   = "matches"
	kindEventList = "event_list"
	kindSchema    = "schema"
	kindPut       = "put"
)

const (
	defaultTable                 = "match"
	defaultMaxOpenConns          = 4
	defaultMetricsUpdateInterval = 5 * time.Second
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLStore implements Store and Writer over database/sql with squirrel-built queries.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType

	table                 string
	maxOpenConns          int
	metricsUpdateInterval time.Duration

	stop      chan struct{}
	closeOnce sync.Once
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	s, err := New(db, driver, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	go s.startMetricsUpdater(ctx)
	return s, nil
}

// New wraps an open database. The driver selects the placeholder format.
func New(db *sql.DB, driver string, opts ...Option) (*SQLStore, error) {
	s := &SQLStore{
		db:                    db,
		table:                 defaultTable,
		maxOpenConns:          defaultMaxOpenConns,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stop:                  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	switch driver {
	case DriverSQLite:
		s.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	case DriverPostgres:
		s.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if !identPattern.MatchString(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s.table)
	}

	db.SetMaxOpenConns(s.maxOpenConns)
	return s, nil
}

// EventListQuery builds the event list lookup with ? placeholders.
func EventListQuery(table string, team, match int, stage model.Stage) (string, []any, error) {
	b, err := eventListSelect(sq.StatementBuilder.PlaceholderFormat(sq.Question), table, team, match, stage)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func eventListSelect(b sq.StatementBuilderType, table string, team, match int, stage model.Stage) (sq.SelectBuilder, error) {
	if stage != model.StageAuto && stage != model.StageTeleop {
		return sq.SelectBuilder{}, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if !identPattern.MatchString(table) {
		return sq.SelectBuilder{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	return b.Select(stage.Column()).
		From(table).
		Where(sq.Eq{colTeam: team}).
		Where(sq.Eq{colMatch: match}), nil
}

// Teams returns the distinct team numbers.
func (s *SQLStore) Teams(ctx context.Context) ([]int, error) {
	q := s.builder.Select(colTeam).Distinct().From(s.table).OrderBy(colTeam)
	return s.queryInts(ctx, kindTeams, q)
}

// Matches returns the distinct match numbers for a team.
func (s *SQLStore) Matches(ctx context.Context, team int) ([]int, error) {
	q := s.builder.Select(colMatch).Distinct().From(s.table).
		Where(sq.Eq{colTeam: team}).
		OrderBy(colMatch)
	return s.queryInts(ctx, kindMatches, q)
}

// EventList returns the first non-NULL event list column among the rows for the match.
func (s *SQLStore) EventList(ctx context.Context, team, match int, stage model.Stage) ([]byte, error) {
	q, err := eventListSelect(s.builder, s.table, team, match, stage)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.query(ctx, q)
	if err != nil {
		metrics.RecordStoreError(kindEventList)
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kindEventList, err)
	}
	defer rows.Close()

	found := false
	var out []byte
	for rows.Next() {
		found = true
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			metrics.RecordStoreError(kindEventList)
			return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kindEventList, err)
		}
		if v.Valid {
			out = []byte(v.String)
			break
		}
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError(kindEventList)
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kindEventList, err)
	}
	metrics.RecordStoreQuery(kindEventList, metrics.SinceMs(start))

	if !found {
		return nil, fmt.Errorf("%w: team %d match %d", ErrNotFound, team, match)
	}
	return out, nil
}

// EnsureSchema creates the match table and its lookup index when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	start := time.Now()
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s INTEGER NOT NULL,
	%s INTEGER NOT NULL,
	%s TEXT,
	%s TEXT
)`, s.table, colTeam, colMatch, model.StageAuto.Column(), model.StageTeleop.Column()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_team_match ON %s (%s, %s)`, s.table, s.table, colTeam, colMatch),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			metrics.RecordStoreError(kindSchema)
			return fmt.Errorf("%w: %s: %w", ErrQuery, kindSchema, err)
		}
	}
	metrics.RecordStoreQuery(kindSchema, metrics.SinceMs(start))
	return nil
}

// PutMatch replaces the row for the match in a single transaction.
func (s *SQLStore) PutMatch(ctx context.Context, row model.MatchRow) (err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			metrics.RecordStoreError(kindPut)
			return
		}
		metrics.RecordStoreQuery(kindPut, metrics.SinceMs(start))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrQuery, kindPut, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := s.builder.Delete(s.table).Where(sq.Eq{colTeam: row.Team, colMatch: row.Match})
	ins := s.builder.Insert(s.table).
		Columns(colTeam, colMatch, model.StageAuto.Column(), model.StageTeleop.Column()).
		Values(row.Team, row.Match, nullText(row.AutoEvents), nullText(row.TeleEvents))

	for _, q := range []sq.Sqlizer{del, ins} {
		if err = execTx(ctx, tx, q); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrQuery, kindPut, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrQuery, kindPut, err)
	}
	return nil
}

// Close stops the metrics updater and closes the database.
func (s *SQLStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	return s.db.Close()
}

func (s *SQLStore) queryInts(ctx context.Context, kind string, q sq.SelectBuilder) ([]int, error) {
	start := time.Now()
	rows, err := s.query(ctx, q)
	if err != nil {
		metrics.RecordStoreError(kind)
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kind, err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var v sql.NullInt64
		if err := rows.Scan(&v); err != nil {
			metrics.RecordStoreError(kind)
			return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kind, err)
		}
		if v.Valid {
			out = append(out, int(v.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError(kind)
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, kind, err)
	}
	metrics.RecordStoreQuery(kind, metrics.SinceMs(start))
	return out, nil
}

func (s *SQLStore) query(ctx context.Context, q sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return s.db.QueryContext(ctx, query, args...)
}

func execTx(ctx context.Context, tx *sql.Tx, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func nullText(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// startMetricsUpdater publishes pool statistics until ctx ends or the store closes.
func (s *SQLStore) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.updateMetrics()
		}
	}
}

func (s *SQLStore) updateMetrics() {
	st := s.db.Stats()
	metrics.UpdateStoreConnections(st.OpenConnections, st.InUse)
}

// IsNotFound reports whether err means the match row is absent.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

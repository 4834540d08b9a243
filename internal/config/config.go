// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and ROBOPATH_ env vars.
// - Validation errors wrap ErrInvalidConfig, loader errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"regexp"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// identPattern accepts plain SQL identifiers only; table names cannot be bound as parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DBDriver is the database/sql driver name: sqlite or pgx.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver data source; a file path for sqlite.
	DBDSN string `koanf:"db_dsn"`

	// DBTable is the match event table name.
	DBTable string `koanf:"db_table"`

	// DBMaxOpenConns bounds the connection pool.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// CacheTTLMS is how long decoded event lists stay cached. Zero or less disables the cache.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// PrefetchWorkers sets the number of cache prefetch workers.
	PrefetchWorkers int `koanf:"prefetch_workers"`

	// PrefetchQueueSize bounds the prefetch job queue.
	PrefetchQueueSize int `koanf:"prefetch_queue_size"`

	// DefaultTeam is preselected on the first page load; 0 picks the first team.
	DefaultTeam int `koanf:"default_team"`

	// FieldWidth and FieldHeight size the field diagram in pixels.
	FieldWidth  int `koanf:"field_width"`
	FieldHeight int `koanf:"field_height"`

	// HeatmapCols and HeatmapRows size the heatmap grid.
	HeatmapCols int `koanf:"heatmap_cols"`
	HeatmapRows int `koanf:"heatmap_rows"`

	// MetricsEnabled turns Prometheus collection on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem form the metric name prefix.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBucketsMS overrides the latency histogram buckets. Must be increasing.
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`

	// MetricsLabels are constant labels on every metric, e.g. event: 2024cmptx.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8050",
		DBDriver:          DriverSQLite,
		DBDSN:             "data_2024.db",
		DBTable:           "match",
		DBMaxOpenConns:    4,
		CacheTTLMS:        60_000,
		PrefetchWorkers:   2,
		PrefetchQueueSize: 256,
		DefaultTeam:       0,
		FieldWidth:        600,
		FieldHeight:       300,
		HeatmapCols:       24,
		HeatmapRows:       12,
		MetricsEnabled:    true,
		MetricsNamespace:  "robopath",
		MetricsSubsystem:  "dashboard",
	}
}

// CacheTTL returns the cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres:
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDSN == "":
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	case !identPattern.MatchString(c.DBTable):
		return fmt.Errorf("%w: db_table %q is not a plain identifier", ErrInvalidConfig, c.DBTable)
	case c.FieldWidth <= 0 || c.FieldHeight <= 0:
		return fmt.Errorf("%w: field size must be positive", ErrInvalidConfig)
	case c.HeatmapCols <= 0 || c.HeatmapRows <= 0:
		return fmt.Errorf("%w: heatmap grid must be positive", ErrInvalidConfig)
	case !identPattern.MatchString(c.MetricsNamespace) || !identPattern.MatchString(c.MetricsSubsystem):
		return fmt.Errorf("%w: metrics namespace and subsystem must be plain identifiers", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBucketsMS); i++ {
		if c.MetricsBucketsMS[i] <= c.MetricsBucketsMS[i-1] {
			return fmt.Errorf("%w: metrics_buckets_ms must be increasing", ErrInvalidConfig)
		}
	}
	for name := range c.MetricsLabels {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: metrics label %q is not a plain identifier", ErrInvalidConfig, name)
		}
	}
	return nil
}

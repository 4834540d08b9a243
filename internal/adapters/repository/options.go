package repository

import "time"

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithTable sets the match table name. It must be a plain identifier.
func WithTable(table string) Option {
	return func(s *SQLStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithMaxOpenConns bounds the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background connection metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *SQLStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

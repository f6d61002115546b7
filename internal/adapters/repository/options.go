package repository

import (
	"time"

	"github.com/okian/nutrilookup/pkg/logger"
)

// Default pool settings, matching a ten connection limit.
const (
	defaultMaxOpenConns  = 10
	defaultMaxIdleConns  = 10
	defaultSlowThreshold = 200 * time.Millisecond
)

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithMaxOpenConns caps concurrent connections; callers beyond it wait for one.
func WithMaxOpenConns(n int) Option {
	return func(s *GormStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns caps idle connections kept by the pool.
func WithMaxIdleConns(n int) Option {
	return func(s *GormStore) {
		if n >= 0 {
			s.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime recycles connections older than d. Zero disables recycling.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *GormStore) {
		if d >= 0 {
			s.connMaxLifetime = d
		}
	}
}

// WithSlowThreshold sets the latency above which queries are logged as slow.
func WithSlowThreshold(d time.Duration) Option {
	return func(s *GormStore) {
		if d > 0 {
			s.slowThreshold = d
		}
	}
}

// WithLogger routes SQL tracing and driver errors to l.
func WithLogger(l logger.Logger) Option {
	return func(s *GormStore) {
		if l != nil {
			s.logger = l
		}
	}
}

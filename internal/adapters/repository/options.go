package repository

import (
	"time"

	"github.com/hirelens/hirestats/pkg/logger"
)

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithQueryTimeout bounds each store round trip.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *SQLStore) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *SQLStore) {
		if log != nil {
			s.log = log
		}
	}
}

// Package cache stores the small counters that back per-session flow tokens.
// Providers register themselves by name; memory is the default and redis
// shares counters between several showfinder instances.
package cache

import "github.com/rs/zerolog"

// EvictCallback is called when an entry is evicted from the cache.
// The redis provider passes a nil value.
type EvictCallback func(key string, value []byte)

// Cache is a bounded key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value stored under key.
	Get(key string) ([]byte, bool)

	// Set stores value under key, refreshing its expiry.
	Set(key string, value []byte)

	// Incr atomically increments the decimal counter stored under key and
	// returns the new value. A missing or expired key starts from zero.
	Incr(key string) (uint64, error)

	// Len returns the number of live entries.
	Len() int

	// Close releases the backend connection, if any.
	Close() error
}

// Logger receives backend errors that cannot be returned to the caller.
type Logger interface {
	Error(msg string, err error)
}

type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog logger to the cache Logger interface.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologAdapter{logger: logger.With().Str("component", "cache").Logger()}
}

func (z zerologAdapter) Error(msg string, err error) {
	z.logger.Error().Err(err).Msg(msg)
}

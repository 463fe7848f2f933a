package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrMissing is returned when a required configuration key has no value.
var ErrMissing = errors.New("configuration missing")

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the configuration value associated with the given key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the configuration value associated with the given key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Missing keys resolve to the zero value of the requested type; use Require to
// fail fast on keys the process cannot start without.
type Config interface {
	io.Closer
	TimeConfig

	// IsSet reports whether the key has a non-empty value from any source.
	IsSet(key string) bool

	GetInt(key string) int
	GetInt32(key string) int32
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetBinary retrieves the value decoded from base64. Invalid encoding yields nil.
	GetBinary(key string) []byte

	// GetArray retrieves the value split on commas with blank elements removed.
	// Configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string
}

// Require returns an error wrapping ErrMissing that names every key without a value.
func Require(cfg Config, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if !cfg.IsSet(key) {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}

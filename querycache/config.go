package querycache

import (
	"time"

	"github.com/goliatone/go-inventory-cache/internal/cacheinfra"
)

// ConfigError is returned by Config.Validate.
type ConfigError = cacheinfra.ConfigError

// Config exposes the query cache options.
type Config struct {
	// Capacity, NumShards and EvictionPercentage size the value store.
	Capacity           int
	NumShards          int
	EvictionPercentage int

	// StaleTime marks a fresh entry stale once it is older than this.
	// Zero keeps entries fresh until they are invalidated.
	StaleTime time.Duration

	// FetchTimeout bounds every background fetch. Zero means no bound
	// beyond the fetch function's own.
	FetchTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	store := cacheinfra.DefaultConfig()
	return Config{
		Capacity:           store.Capacity,
		NumShards:          store.NumShards,
		EvictionPercentage: store.EvictionPercentage,
		FetchTimeout:       30 * time.Second,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if c.StaleTime < 0 {
		return &ConfigError{Field: "StaleTime", Message: "must be non-negative"}
	}
	if c.FetchTimeout < 0 {
		return &ConfigError{Field: "FetchTimeout", Message: "must be non-negative"}
	}
	return c.toStore().Validate()
}

func (c Config) toStore() cacheinfra.Config {
	store := cacheinfra.DefaultConfig()
	store.Capacity = c.Capacity
	store.NumShards = c.NumShards
	store.EvictionPercentage = c.EvictionPercentage
	return store
}

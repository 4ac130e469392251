package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc value store.
type Config struct {
	// Capacity defines the maximum number of values the store keeps.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards for concurrent access.
	// Must be greater than 0 and no larger than Capacity.
	NumShards int

	// TTL is how long a value survives without being replaced. Query cache
	// values only leave through invalidation or teardown, so this is long.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when a shard reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero
	// disables the background sweep; capacity-driven eviction still applies.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config sized for a dashboard session.
func DefaultConfig() Config {
	return Config{
		Capacity:           1024,
		NumShards:          16,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go straight to sturdyc.New.
//
// sturdyc never stops its sweep goroutine, so a store without an explicit
// interval runs none. Stores are created once per cache session.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	if c.EvictionInterval > 0 {
		return []sturdyc.Option{sturdyc.WithEvictionInterval(c.EvictionInterval)}
	}
	return []sturdyc.Option{sturdyc.WithNoContinuousEvictions()}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.NumShards > c.Capacity {
		return &ConfigError{Field: "NumShards", Message: "must not exceed Capacity"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Store keeps the last fetched value of every query cache entry.
type Store struct {
	client *sturdyc.Client[any]
	cfg    Config
}

// NewStore validates cfg and creates the sturdyc client backing the store.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &Store{client: client, cfg: cfg}, nil
}

// Get returns the value stored under key, if it is still present.
func (s *Store) Get(key string) (any, bool) {
	return s.client.Get(key)
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.client.Set(key, value)
}

// Delete removes a single value.
func (s *Store) Delete(key string) {
	s.client.Delete(key)
}

// Keys lists every key currently held.
func (s *Store) Keys() []string {
	return s.client.ScanKeys()
}

// Size reports how many values are held.
func (s *Store) Size() int {
	return s.client.Size()
}

// Clear removes every value.
func (s *Store) Clear() {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
}

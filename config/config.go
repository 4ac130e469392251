// Package config loads the dashboard data layer settings from defaults, an
// optional YAML file, an optional .env file and the environment, in that
// order of increasing priority.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-inventory-cache/aggregate"
	"github.com/goliatone/go-inventory-cache/client"
	"github.com/goliatone/go-inventory-cache/querycache"
)

// DefaultBaseURL is the API address used when none is configured.
const DefaultBaseURL = "http://localhost:5000"

type Config struct {
	API       APIConfig       `yaml:"api"`
	Cache     CacheConfig     `yaml:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`

	// LoadedFrom lists the sources applied, lowest priority first.
	LoadedFrom []string `yaml:"-"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type CacheConfig struct {
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	StaleTime          time.Duration `yaml:"stale_time"`
	FetchTimeout       time.Duration `yaml:"fetch_timeout"`
}

type DashboardConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

type LogConfig struct {
	// Mode is "prod", "debug" or "dev".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Token string `yaml:"token"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	qc := querycache.DefaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Capacity:           qc.Capacity,
			NumShards:          qc.NumShards,
			EvictionPercentage: qc.EvictionPercentage,
			StaleTime:          qc.StaleTime,
			FetchTimeout:       qc.FetchTimeout,
		},
		Dashboard: DashboardConfig{
			LowStockThreshold: aggregate.DefaultLowStockThreshold,
		},
		Log: LogConfig{Mode: "dev"},
	}
}

// ClientConfig maps the API section onto client.Config.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.API.BaseURL,
		Timeout:   c.API.Timeout,
		UserAgent: c.API.UserAgent,
	}
}

// QueryCacheConfig maps the cache section onto querycache.Config.
func (c *Config) QueryCacheConfig() querycache.Config {
	return querycache.Config{
		Capacity:           c.Cache.Capacity,
		NumShards:          c.Cache.NumShards,
		EvictionPercentage: c.Cache.EvictionPercentage,
		StaleTime:          c.Cache.StaleTime,
		FetchTimeout:       c.Cache.FetchTimeout,
	}
}

// Validate checks whether the configuration values are valid.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return &ConfigError{Field: "api.base_url", Message: "is required"}
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ConfigError{Field: "api.base_url", Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", base)}
	}
	if c.API.Timeout <= 0 {
		return &ConfigError{Field: "api.timeout", Message: "must be greater than 0"}
	}
	if c.Dashboard.LowStockThreshold < 0 {
		return &ConfigError{Field: "dashboard.low_stock_threshold", Message: "must be non-negative"}
	}
	switch strings.ToLower(c.Log.Mode) {
	case "", "dev", "debug", "prod", "production":
	default:
		return &ConfigError{Field: "log.mode", Message: fmt.Sprintf("unknown mode %q", c.Log.Mode)}
	}
	if err := c.QueryCacheConfig().Validate(); err != nil {
		return &ConfigError{Field: "cache", Message: err.Error()}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

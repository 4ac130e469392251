package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAPIURL            = "INVENTORY_API_URL"
	EnvLegacyAPIURL      = "VITE_API_URL"
	EnvAPITimeout        = "INVENTORY_API_TIMEOUT"
	EnvToken             = "INVENTORY_TOKEN"
	EnvLowStockThreshold = "INVENTORY_LOW_STOCK_THRESHOLD"
	EnvCacheStaleTime    = "INVENTORY_CACHE_STALE_TIME"
	EnvCacheFetchTimeout = "INVENTORY_CACHE_FETCH_TIMEOUT"
	EnvCacheCapacity     = "INVENTORY_CACHE_CAPACITY"
	EnvLogMode           = "INVENTORY_LOG_MODE"
)

// Loader layers configuration sources over the defaults.
type Loader struct {
	// ConfigFile is an optional YAML file. When set it must exist.
	ConfigFile string
	// EnvFile is an optional dotenv file. A missing file is skipped.
	// Variables already in the environment take precedence over it.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load reads configFile, then .env from the working directory, then the
// environment.
func Load(configFile string) (*Config, error) {
	l := &Loader{ConfigFile: configFile, EnvFile: ".env"}
	return l.Load()
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	if l.ConfigFile != "" {
		if err := loadYAML(l.ConfigFile, cfg); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, l.ConfigFile)
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if l.EnvFile != "" {
		dotenv, err := godotenv.Read(l.EnvFile)
		switch {
		case err == nil:
			lookup = overlay(lookup, dotenv)
			cfg.LoadedFrom = append(cfg.LoadedFrom, l.EnvFile)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", l.EnvFile, err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// overlay looks names up in the environment first, then in dotenv.
func overlay(env func(string) (string, bool), dotenv map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := env(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.API.BaseURL = v
	} else if v, ok := lookup(EnvLegacyAPIURL); ok && v != "" {
		cfg.API.BaseURL = v
	}
	if v, ok := lookup(EnvToken); ok {
		cfg.Auth.Token = v
	}
	if v, ok := lookup(EnvLogMode); ok && v != "" {
		cfg.Log.Mode = v
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{EnvAPITimeout, &cfg.API.Timeout},
		{EnvCacheStaleTime, &cfg.Cache.StaleTime},
		{EnvCacheFetchTimeout, &cfg.Cache.FetchTimeout},
	}
	for _, d := range durations {
		v, ok := lookup(d.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: d.name, Message: fmt.Sprintf("invalid duration %q", v)}
		}
		*d.target = parsed
	}

	ints := []struct {
		name   string
		target *int
	}{
		{EnvLowStockThreshold, &cfg.Dashboard.LowStockThreshold},
		{EnvCacheCapacity, &cfg.Cache.Capacity},
	}
	for _, i := range ints {
		v, ok := lookup(i.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: i.name, Message: fmt.Sprintf("invalid integer %q", v)}
		}
		*i.target = parsed
	}
	return nil
}

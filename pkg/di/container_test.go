package di

import (
	"testing"
	"time"

	"github.com/goliatone/go-inventory-cache/auth"
	"github.com/goliatone/go-inventory-cache/config"
	"github.com/goliatone/go-inventory-cache/internal/logger"
)

func TestNewContainer(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://api.example.test"
	cfg.Cache.Capacity = 1000
	cfg.Cache.NumShards = 10
	cfg.Cache.StaleTime = 5 * time.Minute
	cfg.Dashboard.LowStockThreshold = 3

	container, err := NewContainer(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container == nil {
		t.Fatal("NewContainer() returned nil container")
	}

	// Verify that dependencies are properly initialized
	if container.Cache() == nil {
		t.Error("Container should have a non-nil cache")
	}
	if container.Client() == nil {
		t.Error("Container should have a non-nil client")
	}
	if container.Products() == nil || container.Categories() == nil {
		t.Error("Container should have non-nil services")
	}
	if container.Orchestrator() == nil {
		t.Error("Container should have a non-nil orchestrator")
	}
	if container.Inventory() == nil {
		t.Error("Container should have a non-nil inventory")
	}
	if container.Metrics() == nil {
		t.Error("Container should have a non-nil metrics collector")
	}

	if got := container.Client().BaseURL(); got != "http://api.example.test" {
		t.Errorf("Expected base URL http://api.example.test, got %s", got)
	}
	if got := container.Dashboard().Threshold(); got != 3 {
		t.Errorf("Expected threshold 3, got %d", got)
	}

	// Verify config is stored correctly
	if container.Config().Cache.Capacity != 1000 {
		t.Errorf("Expected capacity 1000, got %d", container.Config().Cache.Capacity)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	if got := container.Config().API.BaseURL; got != config.DefaultBaseURL {
		t.Errorf("Expected default base URL %s, got %s", config.DefaultBaseURL, got)
	}
	if container.Session().IsAuthenticated() {
		t.Error("Expected anonymous session without a configured token")
	}
}

func TestNewContainer_NilConfigUsesDefaults(t *testing.T) {
	container, err := NewContainer(nil, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewContainer(nil) failed: %v", err)
	}
	defer container.Close()

	if container.Config() == nil {
		t.Error("Expected default config")
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "relative base url", mutate: func(c *config.Config) { c.API.BaseURL = "api" }},
		{name: "zero timeout", mutate: func(c *config.Config) { c.API.Timeout = 0 }},
		{name: "zero capacity", mutate: func(c *config.Config) { c.Cache.Capacity = 0 }},
		{name: "bad log mode", mutate: func(c *config.Config) { c.Log.Mode = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			container, err := NewContainer(cfg, WithLogger(logger.Nop()))
			if err == nil {
				container.Close()
				t.Fatal("expected error for invalid config")
			}
			if container != nil {
				t.Error("expected nil container on error")
			}
		})
	}
}

func TestNewContainer_WithSession(t *testing.T) {
	session := auth.NewStaticSession("provided")
	cfg := config.Default()
	cfg.Auth.Token = "configured"

	container, err := NewContainer(cfg, WithLogger(logger.Nop()), WithSession(session))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container.Session() != session {
		t.Error("Expected the provided session to be used")
	}
	if got := container.Session().CurrentToken(); got != "provided" {
		t.Errorf("Expected token provided, got %s", got)
	}
}

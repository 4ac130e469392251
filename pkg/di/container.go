package di

import (
	"net/http"

	"github.com/goliatone/go-inventory-cache/auth"
	"github.com/goliatone/go-inventory-cache/client"
	"github.com/goliatone/go-inventory-cache/config"
	"github.com/goliatone/go-inventory-cache/dashboard"
	"github.com/goliatone/go-inventory-cache/internal/logger"
	"github.com/goliatone/go-inventory-cache/internal/metrics"
	"github.com/goliatone/go-inventory-cache/inventory"
	"github.com/goliatone/go-inventory-cache/mutation"
	"github.com/goliatone/go-inventory-cache/querycache"
	"github.com/goliatone/go-inventory-cache/service"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "inventory"

// Container provides dependency injection for the data layer.
// It builds one instance of every component from a config.Config and wires
// them together: session -> client -> services -> cache -> orchestrator ->
// inventory -> dashboard.
type Container struct {
	config       *config.Config
	logger       *logger.Logger
	session      *auth.StaticSession
	client       *client.Client
	cache        *querycache.Cache
	metrics      *metrics.Collector
	products     *service.Products
	categories   *service.Categories
	orchestrator *mutation.Orchestrator
	inventory    *inventory.Inventory
	dashboard    *dashboard.Dashboard
}

type options struct {
	logger     *logger.Logger
	httpClient *http.Client
	session    *auth.StaticSession
}

// Option customises NewContainer.
type Option func(*options)

// WithLogger uses l instead of a logger built from the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithSession uses s instead of a session holding the configured token.
func WithSession(s *auth.StaticSession) Option {
	return func(o *options) {
		o.session = s
	}
}

// NewContainer creates a new DI container from cfg. Logging out of the
// session discards every cached query.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		var err error
		if log, err = logger.New(cfg.Log.Mode); err != nil {
			return nil, err
		}
	}

	session := o.session
	if session == nil {
		session = auth.NewStaticSession(cfg.Auth.Token)
	}

	clientOpts := []client.Option{
		client.WithTokenSource(session),
		client.WithLogger(log.With("component", "client")),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	apiClient, err := client.New(cfg.ClientConfig(), clientOpts...)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(MetricsNamespace)
	qc, err := querycache.New(cfg.QueryCacheConfig(),
		querycache.WithLogger(log.With("component", "querycache")),
		querycache.WithObserver(collector),
	)
	if err != nil {
		return nil, err
	}

	products := service.NewProducts(apiClient)
	categories := service.NewCategories(apiClient)
	orch := mutation.New(qc, mutation.WithLogger(log.With("component", "mutation")))
	inv := inventory.New(qc, products, categories, orch)
	dash := dashboard.New(inv, dashboard.WithThreshold(cfg.Dashboard.LowStockThreshold))

	session.OnLogout(func() {
		if err := qc.Close(); err != nil {
			log.Error("failed to reset query cache on logout", "error", err)
			return
		}
		log.Info("session ended, query cache reset")
	})

	return &Container{
		config:       cfg,
		logger:       log,
		session:      session,
		client:       apiClient,
		cache:        qc,
		metrics:      collector,
		products:     products,
		categories:   categories,
		orchestrator: orch,
		inventory:    inv,
		dashboard:    dash,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default configuration.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(config.Default(), opts...)
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) Logger() *logger.Logger {
	return c.logger
}

func (c *Container) Session() *auth.StaticSession {
	return c.session
}

func (c *Container) Client() *client.Client {
	return c.client
}

// Cache returns the singleton query cache.
func (c *Container) Cache() *querycache.Cache {
	return c.cache
}

func (c *Container) Metrics() *metrics.Collector {
	return c.metrics
}

func (c *Container) Products() *service.Products {
	return c.products
}

func (c *Container) Categories() *service.Categories {
	return c.categories
}

func (c *Container) Orchestrator() *mutation.Orchestrator {
	return c.orchestrator
}

// Inventory returns the cached read/write entry point.
func (c *Container) Inventory() *inventory.Inventory {
	return c.inventory
}

func (c *Container) Dashboard() *dashboard.Dashboard {
	return c.dashboard
}

// Close drops the cache and flushes the logger.
func (c *Container) Close() error {
	err := c.cache.Close()
	c.logger.Sync()
	return err
}

// Package metrics exports query cache activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-inventory-cache/querycache"
)

// Collector holds the query cache metrics. It implements
// querycache.Observer. Labels carry the resource name only, never ids.
type Collector struct {
	registry *prometheus.Registry

	Fetches       *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	InFlight      *prometheus.GaugeVec
	Invalidations *prometheus.CounterVec
}

var _ querycache.Observer = (*Collector)(nil)

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "querycache",
			Name:      "fetches_total",
			Help:      "Completed query cache fetches by resource and result",
		},
		[]string{"resource", "scope", "result"},
	)

	fetchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "querycache",
			Name:      "fetch_duration_seconds",
			Help:      "Query cache fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource", "scope"},
	)

	inFlight := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "querycache",
			Name:      "fetches_in_flight",
			Help:      "Query cache fetches currently running",
		},
		[]string{"resource", "scope"},
	)

	invalidations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "querycache",
			Name:      "invalidations_total",
			Help:      "Query cache invalidations by resource and previous state",
		},
		[]string{"resource", "scope", "from"},
	)

	registry.MustRegister(fetches, fetchDuration, inFlight, invalidations)

	return &Collector{
		registry:      registry,
		Fetches:       fetches,
		FetchDuration: fetchDuration,
		InFlight:      inFlight,
		Invalidations: invalidations,
	}
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func scope(key querycache.Key) string {
	if key.IsCollection() {
		return "collection"
	}
	return "item"
}

func (c *Collector) FetchStarted(key querycache.Key) {
	c.InFlight.WithLabelValues(key.Resource, scope(key)).Inc()
}

func (c *Collector) FetchSucceeded(key querycache.Key, elapsed time.Duration) {
	c.finish(key, elapsed, "success")
}

func (c *Collector) FetchFailed(key querycache.Key, elapsed time.Duration, _ error) {
	c.finish(key, elapsed, "error")
}

func (c *Collector) finish(key querycache.Key, elapsed time.Duration, result string) {
	s := scope(key)
	c.InFlight.WithLabelValues(key.Resource, s).Dec()
	c.Fetches.WithLabelValues(key.Resource, s, result).Inc()
	c.FetchDuration.WithLabelValues(key.Resource, s).Observe(elapsed.Seconds())
}

func (c *Collector) Invalidated(key querycache.Key, from querycache.State) {
	c.Invalidations.WithLabelValues(key.Resource, scope(key), from.String()).Inc()
}

package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-inventory-cache/querycache"
)

func TestCollector_ObserverEvents(t *testing.T) {
	c := NewCollector("inventory")
	products := querycache.CollectionKey("products")
	item := querycache.ItemKey("products", "p1")

	c.FetchStarted(products)
	c.FetchStarted(item)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.InFlight.WithLabelValues("products", "collection")))

	c.FetchSucceeded(products, 20*time.Millisecond)
	c.FetchFailed(item, time.Millisecond, errors.New("boom"))
	c.Invalidated(products, querycache.StateFresh)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight.WithLabelValues("products", "collection")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight.WithLabelValues("products", "item")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("products", "collection", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("products", "item", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Invalidations.WithLabelValues("products", "collection", "fresh")))
}

func TestCollector_WiredIntoCache(t *testing.T) {
	c := NewCollector("inventory")
	qc, err := querycache.New(querycache.DefaultConfig(), querycache.WithObserver(c))
	require.NoError(t, err)
	defer qc.Close()

	key := querycache.CollectionKey("categories")
	_, err = qc.Fetch(context.Background(), key, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	qc.Invalidate(key)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("categories", "collection", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Invalidations.WithLabelValues("categories", "collection", "fresh")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("inventory")
	c.FetchStarted(querycache.CollectionKey("products"))
	c.FetchSucceeded(querycache.CollectionKey("products"), time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "inventory_querycache_fetches_total"))
}

func TestNewCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("inventory")
	b := NewCollector("inventory")
	assert.NotSame(t, a.Registry(), b.Registry())
}

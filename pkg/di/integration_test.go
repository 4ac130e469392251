package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-inventory-cache/config"
	"github.com/goliatone/go-inventory-cache/internal/logger"
	"github.com/goliatone/go-inventory-cache/model"
	"github.com/goliatone/go-inventory-cache/mutation"
	"github.com/goliatone/go-inventory-cache/pkg/testsupport"
	"github.com/goliatone/go-inventory-cache/querycache"
)

func newIntegrationContainer(t *testing.T) (*Container, *testsupport.FakeAPI) {
	t.Helper()

	api := testsupport.NewFakeAPI(t)
	api.Seed(testsupport.LoadCatalog(t, testsupport.FixturePath("catalog.json")))

	cfg := config.Default()
	cfg.API.BaseURL = api.URL()
	cfg.Auth.Token = "integration-token"

	container, err := NewContainer(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("Failed to create DI container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container, api
}

func TestIntegration_DashboardLoad(t *testing.T) {
	container, api := newIntegrationContainer(t)
	ctx := context.Background()

	summary, err := container.Dashboard().Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if summary.TotalProducts != 4 {
		t.Errorf("Expected 4 products, got %d", summary.TotalProducts)
	}
	if summary.TotalCategories != 3 {
		t.Errorf("Expected 3 categories, got %d", summary.TotalCategories)
	}
	if summary.LowStockCount != 3 {
		t.Errorf("Expected 3 low stock products, got %d", summary.LowStockCount)
	}
	if got := api.LastAuthorization(); got != "Bearer integration-token" {
		t.Errorf("Expected bearer token on requests, got %q", got)
	}

	// Second load is served from the cache
	if _, err := container.Dashboard().Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := api.Calls(http.MethodGet, "/products"); got != 1 {
		t.Errorf("Expected 1 products request, got %d", got)
	}
	if got := api.Calls(http.MethodGet, "/categories"); got != 1 {
		t.Errorf("Expected 1 categories request, got %d", got)
	}

	fetches := container.Metrics().Fetches.WithLabelValues("products", "collection", "success")
	if got := testutil.ToFloat64(fetches); got != 1 {
		t.Errorf("Expected 1 recorded products fetch, got %v", got)
	}
}

func TestIntegration_MutationRefreshesDashboard(t *testing.T) {
	container, api := newIntegrationContainer(t)
	ctx := context.Background()
	inv := container.Inventory()

	if _, err := container.Dashboard().Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := inv.UpdateProduct(ctx, "p1", model.UpdateProductDTO{Stock: model.Ptr(100)}, mutation.Hooks[model.Product]{}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	summary, err := container.Dashboard().Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if summary.LowStockCount != 2 {
		t.Errorf("Expected 2 low stock products after restock, got %d", summary.LowStockCount)
	}
	if got := api.Calls(http.MethodGet, "/products"); got != 2 {
		t.Errorf("Expected products to be refetched once, got %d requests", got)
	}
	if got := api.Calls(http.MethodGet, "/categories"); got != 1 {
		t.Errorf("Expected categories to stay cached, got %d requests", got)
	}
}

func TestIntegration_LogoutResetsCache(t *testing.T) {
	container, api := newIntegrationContainer(t)
	ctx := context.Background()

	if _, err := container.Inventory().FetchCategories(ctx); err != nil {
		t.Fatalf("FetchCategories failed: %v", err)
	}
	if len(container.Cache().Keys()) == 0 {
		t.Fatal("Expected cached keys before logout")
	}

	container.Session().Logout()

	if keys := container.Cache().Keys(); len(keys) != 0 {
		t.Errorf("Expected empty cache after logout, got %v", keys)
	}
	snap := container.Cache().Snapshot(querycache.CollectionKey("categories"))
	if snap.State != querycache.StateEmpty {
		t.Errorf("Expected empty state after logout, got %s", snap.State)
	}

	// Requests after logout go out without a token
	if _, err := container.Inventory().FetchCategories(ctx); err != nil {
		t.Fatalf("FetchCategories failed: %v", err)
	}
	if got := api.LastAuthorization(); got != "" {
		t.Errorf("Expected no Authorization header after logout, got %q", got)
	}
	if got := api.Calls(http.MethodGet, "/categories"); got != 2 {
		t.Errorf("Expected refetch after logout, got %d requests", got)
	}
}

func TestIntegration_ConcurrentReads(t *testing.T) {
	container, api := newIntegrationContainer(t)
	inv := container.Inventory()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := inv.FetchProducts(context.Background())
			if err == nil && len(products) != 4 {
				err = errUnexpectedCount
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent fetch failed: %v", err)
		}
	}
	if got := api.Calls(http.MethodGet, "/products"); got != 1 {
		t.Errorf("Expected a single products request, got %d", got)
	}
}

func TestIntegration_MetricsEndpoint(t *testing.T) {
	container, _ := newIntegrationContainer(t)
	if _, err := container.Inventory().FetchProducts(context.Background()); err != nil {
		t.Fatalf("FetchProducts failed: %v", err)
	}

	rec := httptest.NewRecorder()
	container.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "inventory_querycache_fetches_total") {
		t.Errorf("Expected fetch counter in metrics output")
	}
	if !strings.Contains(body, `resource="products"`) {
		t.Errorf("Expected products series in %s", body)
	}
}

type countError string

func (e countError) Error() string { return string(e) }

const errUnexpectedCount = countError("unexpected product count")

// Package dashboard computes the inventory dashboard from the cached
// product and category collections.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-inventory-cache/aggregate"
	"github.com/goliatone/go-inventory-cache/model"
	"github.com/goliatone/go-inventory-cache/querycache"
)

// Source provides both collections. *inventory.Inventory implements it.
type Source interface {
	Products() querycache.View[[]model.Product]
	Categories() querycache.View[[]model.Category]
	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchCategories(ctx context.Context) ([]model.Category, error)
}

// View is the dashboard as of the latest cache state.
type View struct {
	Summary aggregate.Summary
	// Ready is true once both collections have data.
	Ready     bool
	IsLoading bool
	IsError   bool
	Err       error
}

type Option func(*Dashboard)

// WithThreshold sets the low-stock threshold.
func WithThreshold(n int) Option {
	return func(d *Dashboard) {
		d.threshold = n
	}
}

// Dashboard derives metrics from a Source. The last summary is reused until
// either collection is refetched.
type Dashboard struct {
	src       Source
	threshold int

	mu   sync.Mutex
	memo *memo
}

type inputVersion struct {
	version   uint64
	updatedAt time.Time
	hasData   bool
}

type memo struct {
	products   inputVersion
	categories inputVersion
	summary    aggregate.Summary
}

func New(src Source, opts ...Option) *Dashboard {
	d := &Dashboard{src: src, threshold: aggregate.DefaultLowStockThreshold}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Threshold is the low-stock threshold in use.
func (d *Dashboard) Threshold() int {
	return d.threshold
}

// Metrics reads both collections without blocking and summarizes what is
// available. Missing collections count as empty until they arrive.
func (d *Dashboard) Metrics() View {
	products := d.src.Products()
	categories := d.src.Categories()

	pv := inputVersion{version: products.Version, updatedAt: products.UpdatedAt, hasData: products.HasData}
	cv := inputVersion{version: categories.Version, updatedAt: categories.UpdatedAt, hasData: categories.HasData}

	return View{
		Summary:   d.summary(pv, cv, categories.Data, products.Data),
		Ready:     products.HasData && categories.HasData,
		IsLoading: products.IsLoading || categories.IsLoading,
		IsError:   products.IsError || categories.IsError,
		Err:       errors.Join(products.Err, categories.Err),
	}
}

func (d *Dashboard) summary(pv, cv inputVersion, categories []model.Category, products []model.Product) aggregate.Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.memo != nil && d.memo.products == pv && d.memo.categories == cv {
		return d.memo.summary
	}
	s := aggregate.Summarize(categories, products, d.threshold)
	d.memo = &memo{products: pv, categories: cv, summary: s}
	return s
}

// Load fetches both collections concurrently, waiting for them, and
// returns their summary.
func (d *Dashboard) Load(ctx context.Context) (aggregate.Summary, error) {
	var (
		products   []model.Product
		categories []model.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = d.src.FetchProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = d.src.FetchCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return aggregate.Summary{}, err
	}

	return aggregate.Summarize(categories, products, d.threshold), nil
}

// Package inventory is the entry point the dashboard uses for products and
// categories. Reads go through the query cache; writes go through the
// mutation orchestrator, which invalidates the affected keys.
//
// Values returned by the query methods are shared with the cache and must
// be treated as read-only.
package inventory

import (
	"context"

	"github.com/goliatone/go-inventory-cache/model"
	"github.com/goliatone/go-inventory-cache/mutation"
	"github.com/goliatone/go-inventory-cache/querycache"
	"github.com/goliatone/go-inventory-cache/service"
)

type (
	ProductsView   = querycache.View[[]model.Product]
	ProductView    = querycache.View[model.Product]
	CategoriesView = querycache.View[[]model.Category]
	CategoryView   = querycache.View[model.Category]
)

// Inventory combines the cache, the resource services and the orchestrator.
type Inventory struct {
	cache      *querycache.Cache
	products   *service.Products
	categories *service.Categories
	orch       *mutation.Orchestrator
}

// New creates an Inventory. A nil orchestrator is replaced by one that
// invalidates through cache.
func New(cache *querycache.Cache, products *service.Products, categories *service.Categories, orch *mutation.Orchestrator) *Inventory {
	if orch == nil {
		orch = mutation.New(cache)
	}
	return &Inventory{
		cache:      cache,
		products:   products,
		categories: categories,
		orch:       orch,
	}
}

func (inv *Inventory) productsQuery() querycache.Query[[]model.Product] {
	return querycache.Query[[]model.Product]{
		Key:   querycache.CollectionKey(service.ResourceProducts),
		Fetch: inv.products.GetAll,
	}
}

func (inv *Inventory) productQuery(id string) querycache.Query[model.Product] {
	q := querycache.Query[model.Product]{Key: querycache.ItemKey(service.ResourceProducts, id)}
	if id != "" {
		q.Fetch = func(ctx context.Context) (model.Product, error) {
			return inv.products.GetByID(ctx, id)
		}
	}
	return q
}

func (inv *Inventory) categoriesQuery() querycache.Query[[]model.Category] {
	return querycache.Query[[]model.Category]{
		Key:   querycache.CollectionKey(service.ResourceCategories),
		Fetch: inv.categories.GetAll,
	}
}

func (inv *Inventory) categoryQuery(id string) querycache.Query[model.Category] {
	q := querycache.Query[model.Category]{Key: querycache.ItemKey(service.ResourceCategories, id)}
	if id != "" {
		q.Fetch = func(ctx context.Context) (model.Category, error) {
			return inv.categories.GetByID(ctx, id)
		}
	}
	return q
}

// Products returns the cached product list, fetching it in the background
// when needed.
func (inv *Inventory) Products() ProductsView {
	return querycache.ReadAs(inv.cache, inv.productsQuery())
}

// Product returns one cached product. An empty id yields an idle view and
// no fetch.
func (inv *Inventory) Product(id string) ProductView {
	id = service.NormalizeID(id)
	if id == "" {
		return ProductView{State: querycache.StateEmpty}
	}
	return querycache.ReadAs(inv.cache, inv.productQuery(id))
}

func (inv *Inventory) Categories() CategoriesView {
	return querycache.ReadAs(inv.cache, inv.categoriesQuery())
}

// Category returns one cached category. An empty id yields an idle view and
// no fetch.
func (inv *Inventory) Category(id string) CategoryView {
	id = service.NormalizeID(id)
	if id == "" {
		return CategoryView{State: querycache.StateEmpty}
	}
	return querycache.ReadAs(inv.cache, inv.categoryQuery(id))
}

// FetchProducts waits for the product list.
func (inv *Inventory) FetchProducts(ctx context.Context) ([]model.Product, error) {
	return querycache.FetchAs(ctx, inv.cache, inv.productsQuery())
}

func (inv *Inventory) FetchProduct(ctx context.Context, id string) (model.Product, error) {
	id = service.NormalizeID(id)
	if id == "" {
		return model.Product{}, service.ErrEmptyID
	}
	return querycache.FetchAs(ctx, inv.cache, inv.productQuery(id))
}

// FetchCategories waits for the category list.
func (inv *Inventory) FetchCategories(ctx context.Context) ([]model.Category, error) {
	return querycache.FetchAs(ctx, inv.cache, inv.categoriesQuery())
}

func (inv *Inventory) FetchCategory(ctx context.Context, id string) (model.Category, error) {
	id = service.NormalizeID(id)
	if id == "" {
		return model.Category{}, service.ErrEmptyID
	}
	return querycache.FetchAs(ctx, inv.cache, inv.categoryQuery(id))
}

// RefetchProducts starts a product list fetch even from the error state.
func (inv *Inventory) RefetchProducts() ProductsView {
	return querycache.RefetchAs(inv.cache, inv.productsQuery())
}

// RefetchCategories starts a category list fetch even from the error state.
func (inv *Inventory) RefetchCategories() CategoriesView {
	return querycache.RefetchAs(inv.cache, inv.categoriesQuery())
}

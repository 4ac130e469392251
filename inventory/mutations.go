package inventory

import (
	"context"

	"github.com/goliatone/go-inventory-cache/model"
	"github.com/goliatone/go-inventory-cache/mutation"
	"github.com/goliatone/go-inventory-cache/service"
)

// Removed is the result of a successful delete.
type Removed struct {
	ID string
}

func (inv *Inventory) CreateProduct(ctx context.Context, draft model.CreateProductDTO, hooks mutation.Hooks[model.Product]) (model.Product, error) {
	return mutation.Run(ctx, inv.orch, mutation.Mutation[model.Product]{
		Resource: service.ResourceProducts,
		Kind:     mutation.KindCreate,
		Do: func(ctx context.Context) (model.Product, error) {
			return inv.products.Create(ctx, draft)
		},
	}, hooks)
}

func (inv *Inventory) UpdateProduct(ctx context.Context, id string, patch model.UpdateProductDTO, hooks mutation.Hooks[model.Product]) (model.Product, error) {
	id = service.NormalizeID(id)
	return mutation.Run(ctx, inv.orch, mutation.Mutation[model.Product]{
		Resource: service.ResourceProducts,
		Kind:     mutation.KindUpdate,
		ID:       id,
		Do: func(ctx context.Context) (model.Product, error) {
			return inv.products.Update(ctx, id, patch)
		},
	}, hooks)
}

func (inv *Inventory) DeleteProduct(ctx context.Context, id string, hooks mutation.Hooks[Removed]) error {
	id = service.NormalizeID(id)
	_, err := mutation.Run(ctx, inv.orch, mutation.Mutation[Removed]{
		Resource: service.ResourceProducts,
		Kind:     mutation.KindDelete,
		ID:       id,
		Do: func(ctx context.Context) (Removed, error) {
			return Removed{ID: id}, inv.products.Remove(ctx, id)
		},
	}, hooks)
	return err
}

func (inv *Inventory) CreateCategory(ctx context.Context, draft model.CreateCategoryDTO, hooks mutation.Hooks[model.Category]) (model.Category, error) {
	return mutation.Run(ctx, inv.orch, mutation.Mutation[model.Category]{
		Resource: service.ResourceCategories,
		Kind:     mutation.KindCreate,
		Do: func(ctx context.Context) (model.Category, error) {
			return inv.categories.Create(ctx, draft)
		},
	}, hooks)
}

func (inv *Inventory) UpdateCategory(ctx context.Context, id string, patch model.UpdateCategoryDTO, hooks mutation.Hooks[model.Category]) (model.Category, error) {
	id = service.NormalizeID(id)
	return mutation.Run(ctx, inv.orch, mutation.Mutation[model.Category]{
		Resource: service.ResourceCategories,
		Kind:     mutation.KindUpdate,
		ID:       id,
		Do: func(ctx context.Context) (model.Category, error) {
			return inv.categories.Update(ctx, id, patch)
		},
	}, hooks)
}

// DeleteCategory removes a category. Products still referencing it are left
// alone and resolve to an unknown category name from then on.
func (inv *Inventory) DeleteCategory(ctx context.Context, id string, hooks mutation.Hooks[Removed]) error {
	id = service.NormalizeID(id)
	_, err := mutation.Run(ctx, inv.orch, mutation.Mutation[Removed]{
		Resource: service.ResourceCategories,
		Kind:     mutation.KindDelete,
		ID:       id,
		Do: func(ctx context.Context) (Removed, error) {
			return Removed{ID: id}, inv.categories.Remove(ctx, id)
		},
	}, hooks)
	return err
}

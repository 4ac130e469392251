package service

import (
	"github.com/goliatone/go-inventory-cache/model"
)

// Resource names double as path segments and cache key namespaces.
const (
	ResourceProducts   = "products"
	ResourceCategories = "categories"
)

// Products is the /products service.
type Products = Resource[model.Product, model.CreateProductDTO, model.UpdateProductDTO]

// Categories is the /categories service.
type Categories = Resource[model.Category, model.CreateCategoryDTO, model.UpdateCategoryDTO]

// NewProducts builds the products service.
func NewProducts(req Requester) *Products {
	return NewResource[model.Product, model.CreateProductDTO, model.UpdateProductDTO](req, ResourceProducts)
}

// NewCategories builds the categories service.
func NewCategories(req Requester) *Categories {
	return NewResource[model.Category, model.CreateCategoryDTO, model.UpdateCategoryDTO](req, ResourceCategories)
}

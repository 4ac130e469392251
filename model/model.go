// Package model holds the resources served by the inventory API and the
// drafts used to create or patch them.
package model

import (
	"github.com/shopspring/decimal"
)

// Category groups products. ID and CreatedAt are assigned by the server.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// Product is a stock keeping unit. CategoryID is a soft reference into
// Category.ID resolved on read; it may dangle.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
	CreatedAt   Timestamp       `json:"createdAt"`
	UpdatedAt   Timestamp       `json:"updatedAt"`
}

// StockValue is price times units in stock.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// CreateProductDTO is the body of POST /products.
type CreateProductDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
}

// UpdateProductDTO is the body of PUT /products/{id}. Nil fields are left out
// of the payload so the server keeps their previous values.
type UpdateProductDTO struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (d UpdateProductDTO) IsEmpty() bool {
	return d.Name == nil && d.Description == nil && d.Price == nil && d.Stock == nil && d.CategoryID == nil
}

// CreateCategoryDTO is the body of POST /categories.
type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateCategoryDTO is the body of PUT /categories/{id}.
type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (d UpdateCategoryDTO) IsEmpty() bool {
	return d.Name == nil && d.Description == nil
}

// Ptr returns a pointer to v. Handy when building patches.
func Ptr[T any](v T) *T {
	return &v
}

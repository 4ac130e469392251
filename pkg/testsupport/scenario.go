package testsupport

import (
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-inventory-cache/model"
)

// ScenarioCatalog is the reference dashboard scenario: one category holding
// one low-stock and one well-stocked product.
func ScenarioCatalog() Catalog {
	return Catalog{
		Categories: []model.Category{
			{ID: "1", Name: "Eletrônicos"},
		},
		Products: []model.Product{
			{ID: "p1", Name: "Cabo USB-C", Description: "Cabo de 2 metros", CategoryID: "1", Price: decimal.RequireFromString("39.90"), Stock: 2},
			{ID: "p2", Name: "Fone", Description: "Fone sem fio", CategoryID: "1", Price: decimal.RequireFromString("10.00"), Stock: 20},
		},
	}
}

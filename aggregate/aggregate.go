// Package aggregate derives dashboard metrics from product and category
// collections. Every function is pure: inputs are never modified and the
// same inputs always give the same output.
package aggregate

import (
	"encoding/json"
	"sort"

	"github.com/goliatone/go-inventory-cache/model"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the stock level below which a product is
// reported as low stock.
const DefaultLowStockThreshold = 10

// UnknownCategory is the name reported for a category id that matches no
// known category.
const UnknownCategory = "unknown"

// CategoryCount is one bar of the products-per-category chart.
type CategoryCount struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// LowStockItem is a low-stock product with its category name resolved.
type LowStockItem struct {
	Product      model.Product `json:"product"`
	CategoryName string        `json:"categoryName"`
}

// Summary holds every dashboard metric.
type Summary struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	TotalCategories int             `json:"totalCategories"`
	LowStockCount   int             `json:"lowStockCount"`
	LowStock        []LowStockItem  `json:"lowStock"`
	CategoryCounts  []CategoryCount `json:"categoryCounts"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type wire Summary
	return json.Marshal(struct {
		wire
		TotalStockValue json.Number `json:"totalStockValue"`
	}{wire(s), model.JSONNumber(s.TotalStockValue)})
}

// TotalStockValue is the sum of price times stock over all products.
func TotalStockValue(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.StockValue())
	}
	return total
}

// LowStock returns the products with stock below threshold, sorted by
// ascending stock. Products with equal stock keep their input order.
func LowStock(products []model.Product, threshold int) []model.Product {
	low := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Stock < low[j].Stock
	})
	return low
}

// CategoryProductCounts counts the products of every category. Categories
// without products are present with a zero count.
func CategoryProductCounts(categories []model.Category, products []model.Product) map[string]int {
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = 0
	}
	for _, p := range products {
		if _, ok := counts[p.CategoryID]; ok {
			counts[p.CategoryID]++
		}
	}
	return counts
}

// CategoryCounts is CategoryProductCounts as a series in category order.
func CategoryCounts(categories []model.Category, products []model.Product) []CategoryCount {
	counts := CategoryProductCounts(categories, products)
	series := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		series = append(series, CategoryCount{
			CategoryID: c.ID,
			Name:       c.Name,
			Count:      counts[c.ID],
		})
	}
	return series
}

// CategoryNameOf returns the name of the category with the given id, or
// UnknownCategory when there is none.
func CategoryNameOf(categories []model.Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownCategory
}

// LowStockItems is LowStock with each product's category name resolved.
func LowStockItems(categories []model.Category, products []model.Product, threshold int) []LowStockItem {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, seen := names[c.ID]; !seen {
			names[c.ID] = c.Name
		}
	}

	low := LowStock(products, threshold)
	items := make([]LowStockItem, 0, len(low))
	for _, p := range low {
		name, ok := names[p.CategoryID]
		if !ok {
			name = UnknownCategory
		}
		items = append(items, LowStockItem{Product: p, CategoryName: name})
	}
	return items
}

// Summarize computes every dashboard metric in one pass over the inputs.
func Summarize(categories []model.Category, products []model.Product, threshold int) Summary {
	low := LowStockItems(categories, products, threshold)
	return Summary{
		TotalProducts:   len(products),
		TotalStockValue: TotalStockValue(products),
		TotalCategories: len(categories),
		LowStockCount:   len(low),
		LowStock:        low,
		CategoryCounts:  CategoryCounts(categories, products),
	}
}

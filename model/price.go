package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// JSONNumber renders d as a bare JSON number. decimal.Decimal marshals to a
// quoted string unless the package-wide MarshalJSONWithoutQuotes is set,
// and the API expects numbers.
func JSONNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func (p Product) MarshalJSON() ([]byte, error) {
	type wire Product
	return json.Marshal(struct {
		wire
		Price json.Number `json:"price"`
	}{wire(p), JSONNumber(p.Price)})
}

func (d CreateProductDTO) MarshalJSON() ([]byte, error) {
	type wire CreateProductDTO
	return json.Marshal(struct {
		wire
		Price json.Number `json:"price"`
	}{wire(d), JSONNumber(d.Price)})
}

func (d UpdateProductDTO) MarshalJSON() ([]byte, error) {
	type wire UpdateProductDTO
	var price *json.Number
	if d.Price != nil {
		n := JSONNumber(*d.Price)
		price = &n
	}
	return json.Marshal(struct {
		wire
		Price *json.Number `json:"price,omitempty"`
	}{wire(d), price})
}

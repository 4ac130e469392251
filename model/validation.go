package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ValidationError reports client-side rejection of a draft. It is returned
// before any request is sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for the given JSON field name.
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Fields: map[string]string{"": err.Error()}}
	}
	fields := make(map[string]string, len(errs))
	for name, ferr := range errs {
		if ferr != nil {
			fields[name] = ferr.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

var notBlank = validation.By(func(value interface{}) error {
	iv, _ := validation.Indirect(value)
	s, _ := iv.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

var positivePrice = validation.By(func(value interface{}) error {
	var price decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		price = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		price = *v
	default:
		return fmt.Errorf("unsupported price type %T", value)
	}
	if !price.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
})

var nonNegativeStock = validation.By(func(value interface{}) error {
	var stock int
	switch v := value.(type) {
	case int:
		stock = v
	case *int:
		if v == nil {
			return nil
		}
		stock = *v
	default:
		return fmt.Errorf("unsupported stock type %T", value)
	}
	if stock < 0 {
		return errors.New("must be no less than 0")
	}
	return nil
})

// Validate checks the draft of a new product.
func (d CreateProductDTO) Validate() error {
	return toValidationError(validation.ValidateStruct(&d,
		validation.Field(&d.Name, notBlank),
		validation.Field(&d.Description, notBlank),
		validation.Field(&d.Price, positivePrice),
		validation.Field(&d.Stock, nonNegativeStock),
		validation.Field(&d.CategoryID, notBlank),
	))
}

// Validate checks the fields set on the patch.
func (d UpdateProductDTO) Validate() error {
	return toValidationError(validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.When(d.Name != nil, notBlank)),
		validation.Field(&d.Description, validation.When(d.Description != nil, notBlank)),
		validation.Field(&d.Price, validation.When(d.Price != nil, positivePrice)),
		validation.Field(&d.Stock, validation.When(d.Stock != nil, nonNegativeStock)),
		validation.Field(&d.CategoryID, validation.When(d.CategoryID != nil, notBlank)),
	))
}

// Validate checks the draft of a new category.
func (d CreateCategoryDTO) Validate() error {
	return toValidationError(validation.ValidateStruct(&d,
		validation.Field(&d.Name, notBlank),
		validation.Field(&d.Description, validation.Length(0, 500)),
	))
}

// Validate checks the fields set on the patch.
func (d UpdateCategoryDTO) Validate() error {
	return toValidationError(validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.When(d.Name != nil, notBlank)),
		validation.Field(&d.Description, validation.When(d.Description != nil, validation.Length(0, 500))),
	))
}

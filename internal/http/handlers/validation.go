package handlers

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

const (
	minNameLength     = 3
	maxNameLength     = 255
	maxUnitTypeLength = 4
)

var (
	minPricePerItem = decimal.RequireFromString("0.05")
	// maxAmount is the largest value of a NUMERIC(12, 2) column.
	maxAmount = decimal.RequireFromString("9999999999.99")
)

func nameLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func checkName(errs []ValidationError, field, value string, minLen, maxLen int) []ValidationError {
	n := nameLength(value)
	switch {
	case n == 0:
		return append(errs, ValidationError{Field: field, Description: "Name is required"})
	case n < minLen:
		return append(errs, ValidationError{Field: field, Description: fmt.Sprintf("Name must have at least %d characters", minLen)})
	case n > maxLen:
		return append(errs, ValidationError{Field: field, Description: fmt.Sprintf("Name must have at most %d characters", maxLen)})
	}
	return errs
}

func validateRegister(req RegisterRequest) []ValidationError {
	errs := checkName(nil, "name", req.Name, minNameLength, maxNameLength)
	if !isBareAddress(req.Email) {
		errs = append(errs, ValidationError{Field: "email", Description: "Email must be a valid address"})
	}
	return errs
}

// isBareAddress accepts a plain addr-spec such as bob@example.com and rejects
// display-name and angle-bracket forms.
func isBareAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Name == "" && addr.Address == email && strings.Contains(email, "@")
}

func checkQuantity(errs []ValidationError, field string, quantity, minQuantity int) []ValidationError {
	switch {
	case quantity < minQuantity && minQuantity == 0:
		return append(errs, ValidationError{Field: field, Description: field + " must be zero or positive"})
	case quantity < minQuantity:
		return append(errs, ValidationError{Field: field, Description: fmt.Sprintf("%s must be at least %d", field, minQuantity)})
	case quantity > repo.MaxQuantity:
		return append(errs, ValidationError{Field: field, Description: fmt.Sprintf("%s must be at most %d", field, repo.MaxQuantity)})
	}
	return errs
}

func checkPrice(errs []ValidationError, field string, price decimal.Decimal, quantity int) []ValidationError {
	switch {
	case price.LessThan(minPricePerItem):
		return append(errs, ValidationError{Field: field, Description: "pricePaidPerItem must be at least 0.05"})
	case !price.Equal(price.Round(2)):
		return append(errs, ValidationError{Field: field, Description: "pricePaidPerItem must have at most 2 decimal places"})
	case price.Mul(decimal.NewFromInt(int64(quantity))).GreaterThan(maxAmount):
		return append(errs, ValidationError{Field: field, Description: "total price must be at most " + maxAmount.String()})
	}
	return errs
}

func validateBrand(req BrandRequest, partial bool) []ValidationError {
	var errs []ValidationError
	if !partial || req.Name != nil {
		errs = checkName(errs, "name", deref(req.Name), minNameLength, maxNameLength)
	}
	return errs
}

// taxonomyRules holds the name bounds of product types and unit types.
type taxonomyRules struct {
	label  string
	minLen int
	maxLen int
}

var (
	productTypeRules = taxonomyRules{label: "ProductType", minLen: minNameLength, maxLen: maxNameLength}
	unitTypeRules    = taxonomyRules{label: "UnitType", minLen: 1, maxLen: maxUnitTypeLength}
)

func validateTaxonomy(req TaxonomyRequest, rules taxonomyRules, partial bool) []ValidationError {
	var errs []ValidationError
	if !partial || req.Name != nil {
		errs = checkName(errs, "name", deref(req.Name), rules.minLen, rules.maxLen)
	}
	return errs
}

func validateProduct(req ProductRequest, partial bool) []ValidationError {
	var errs []ValidationError
	if !partial || req.Name != nil {
		errs = checkName(errs, "name", deref(req.Name), minNameLength, maxNameLength)
	}
	if !partial && req.ProductTypeID == nil {
		errs = append(errs, ValidationError{Field: "productTypeId", Description: "productTypeId is required"})
	}
	if !partial && req.UnitTypeID == nil {
		errs = append(errs, ValidationError{Field: "unitTypeId", Description: "unitTypeId is required"})
	}
	if !partial && req.MinQuantity == nil {
		errs = append(errs, ValidationError{Field: "minQuantity", Description: "minQuantity must be at least 1"})
	} else if req.MinQuantity != nil {
		errs = checkQuantity(errs, "minQuantity", *req.MinQuantity, 1)
	}
	return errs
}

func validateAddToStorage(req AddToStorageRequest) []ValidationError {
	var errs []ValidationError
	if len(req.Products) == 0 {
		errs = append(errs, ValidationError{Field: "products", Description: "At least one product is required"})
	}
	for i, p := range req.Products {
		errs = checkQuantity(errs, fmt.Sprintf("products[%d].quantity", i), p.Quantity, 1)
	}
	return errs
}

func validateUpdateQuantity(req UpdateQuantityRequest) []ValidationError {
	if req.NewQuantity == nil {
		return []ValidationError{{Field: "newQuantity", Description: "newQuantity must be zero or positive"}}
	}
	return checkQuantity(nil, "newQuantity", *req.NewQuantity, 0)
}

func validateAddToShoppingList(req AddToShoppingListRequest) []ValidationError {
	if len(req.Products) == 0 {
		return []ValidationError{{Field: "products", Description: "At least one product is required"}}
	}
	return nil
}

func validateCompletion(req CompleteShoppingListRequest) []ValidationError {
	var errs []ValidationError
	if len(req.ProductsBought) == 0 {
		errs = append(errs, ValidationError{Field: "productsBought", Description: "At least one product is required"})
	}
	for i, p := range req.ProductsBought {
		errs = checkQuantity(errs, fmt.Sprintf("productsBought[%d].quantityBought", i), p.QuantityBought, 1)
		if p.PricePaidPerItem != nil {
			errs = checkPrice(errs, fmt.Sprintf("productsBought[%d].pricePaidPerItem", i), *p.PricePaidPerItem, p.QuantityBought)
		}
		if p.BrandName != nil && nameLength(*p.BrandName) > 0 {
			errs = checkName(errs, fmt.Sprintf("productsBought[%d].brandName", i), *p.BrandName, minNameLength, maxNameLength)
		}
	}
	return errs
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

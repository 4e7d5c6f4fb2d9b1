package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
	"github.com/shopspring/decimal"
)

type CreatedResponse struct {
	PublicID uuid.UUID `json:"publicId"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BrandRequest is used for create and partial update; omitted fields keep their values.
type BrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type TaxonomyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProductRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	ProductTypeID *uuid.UUID `json:"productTypeId"`
	UnitTypeID    *uuid.UUID `json:"unitTypeId"`
	MinQuantity   *int       `json:"minQuantity"`
}

type ProductResponse struct {
	PublicID    uuid.UUID        `json:"publicId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	MinQuantity int              `json:"minQuantity"`
	ProductType *models.Taxonomy `json:"productType"`
	UnitType    *models.Taxonomy `json:"unitType"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type ProductResult struct {
	Product ProductResponse `json:"product"`
}

type PriceLogSearchResult struct {
	Data []models.PriceLog `json:"data"`
	Meta Meta              `json:"meta"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

type StorageResult struct {
	Storage models.Storage `json:"storage"`
}

type StorageProductRequest struct {
	PublicID uuid.UUID  `json:"publicId"`
	Quantity int        `json:"quantity"`
	BrandID  *uuid.UUID `json:"brandId"`
}

type AddToStorageRequest struct {
	Products []StorageProductRequest `json:"products"`
}

type AddedResult struct {
	Added int `json:"added"`
}

// InvalidProductsResponse explains why none of the submitted products were accepted.
type InvalidProductsResponse struct {
	Message string            `json:"message"`
	Causes  []ValidationError `json:"causes"`
}

type UpdateQuantityRequest struct {
	NewQuantity *int `json:"newQuantity"`
}

type StorageProductResponse struct {
	models.StorageProduct
	ProductName string `json:"productName"`
	BrandName   string `json:"brandName,omitempty"`
}

type StorageProductsResult struct {
	Products []StorageProductResponse `json:"products"`
}

type ListProductRequest struct {
	PublicID uuid.UUID  `json:"publicId"`
	BrandID  *uuid.UUID `json:"brandId"`
}

type AddToShoppingListRequest struct {
	Products []ListProductRequest `json:"products"`
}

type ShoppingListsResult struct {
	ShoppingLists []models.ShoppingList `json:"shoppingLists"`
}

type ShoppingListProductResponse struct {
	models.ShoppingListProduct
	ProductName       string        `json:"productName"`
	QuantityInStorage *int          `json:"quantityInStorage,omitempty"`
	Status            *stock.Status `json:"status,omitempty"`
}

type ShoppingListDetails struct {
	models.ShoppingList
	Products []ShoppingListProductResponse `json:"products"`
}

type ShoppingListResult struct {
	ShoppingList ShoppingListDetails `json:"shoppingList"`
}

type ProductBoughtRequest struct {
	ProductID        uuid.UUID        `json:"productId"`
	QuantityBought   int              `json:"quantityBought"`
	PricePaidPerItem *decimal.Decimal `json:"pricePaidPerItem"`
	BrandName        *string          `json:"brandName"`
}

type CompleteShoppingListRequest struct {
	ProductsBought []ProductBoughtRequest `json:"productsBought"`
}

type PrintableProduct struct {
	PublicID          uuid.UUID     `json:"publicId"`
	Name              string        `json:"name"`
	ProductType       string        `json:"productType"`
	UnitType          string        `json:"unitType"`
	Status            *stock.Status `json:"status,omitempty"`
	QuantityInStorage *int          `json:"quantityInStorage,omitempty"`
	BrandName         string        `json:"brandName,omitempty"`
}

type PrintableShoppingList struct {
	ShoppingListID uuid.UUID          `json:"shoppingListId"`
	Products       []PrintableProduct `json:"products"`
}

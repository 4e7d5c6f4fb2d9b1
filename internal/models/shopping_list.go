package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShoppingList struct {
	ID          uuid.UUID  `json:"publicId"`
	UserID      uuid.UUID  `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (l ShoppingList) Completed() bool {
	return l.CompletedAt != nil
}

// ShoppingListProduct is a line of a shopping list. The purchase fields are
// only filled in when the list is completed.
type ShoppingListProduct struct {
	ID               uuid.UUID           `json:"publicId"`
	ShoppingListID   uuid.UUID           `json:"shoppingListId"`
	ProductID        uuid.UUID           `json:"productId"`
	BrandID          *uuid.UUID          `json:"brandId"`
	QuantityBought   *int                `json:"quantityBought"`
	PricePaidPerItem decimal.NullDecimal `json:"pricePaidPerItem"`
	TotalPricePaid   decimal.NullDecimal `json:"totalPricePaid"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Completion gathers every write performed when a shopping list is completed,
// so repositories can apply them atomically.
type Completion struct {
	ShoppingListID uuid.UUID
	CompletedAt    time.Time
	Brands         []Brand
	Lines          []ShoppingListProduct
	Restocks       []Restock
	PriceLogs      []PriceLog
}

// Restock adds Quantity units of a product to a storage. The resulting status
// is derived from the new total when the write is applied. MinQuantity is the
// threshold the caller read; Postgres re-reads it inside the transaction.
type Restock struct {
	StorageID   uuid.UUID
	ProductID   uuid.UUID
	BrandID     *uuid.UUID
	Quantity    int
	MinQuantity int
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

// Storage is the single inventory container of a user.
type Storage struct {
	ID        uuid.UUID `json:"publicId"`
	UserID    uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// StorageProduct holds the quantity of a product inside a storage.
// Status is always stock.ComputeStatus(Quantity, product min quantity).
type StorageProduct struct {
	ID        uuid.UUID    `json:"publicId"`
	StorageID uuid.UUID    `json:"storageId"`
	ProductID uuid.UUID    `json:"productId"`
	BrandID   *uuid.UUID   `json:"brandId"`
	Quantity  int          `json:"quantity"`
	Status    stock.Status `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

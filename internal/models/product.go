package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product a user keeps track of.
type Product struct {
	ID            uuid.UUID `json:"publicId"`
	UserID        uuid.UUID `json:"-"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ProductTypeID uuid.UUID `json:"productTypeId"`
	UnitTypeID    uuid.UUID `json:"unitTypeId"`
	MinQuantity   int       `json:"minQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

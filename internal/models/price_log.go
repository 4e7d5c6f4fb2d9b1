package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceLog records the price paid for a product when a shopping list is completed.
type PriceLog struct {
	ID        uuid.UUID       `json:"publicId"`
	ProductID uuid.UUID       `json:"productId"`
	BrandID   *uuid.UUID      `json:"brandId"`
	Price     decimal.Decimal `json:"price"`
	LoggedAt  time.Time       `json:"loggedAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is an optional manufacturer label attached to stored or bought products.
type Brand struct {
	ID          uuid.UUID `json:"publicId"`
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaxonomyKind tells product types and unit types apart. Both share the
// Taxonomy shape and live in separate tables.
type TaxonomyKind string

const (
	KindProductType TaxonomyKind = "product_types"
	KindUnitType    TaxonomyKind = "unit_types"
)

type Taxonomy struct {
	ID          uuid.UUID    `json:"publicId"`
	UserID      uuid.UUID    `json:"-"`
	Kind        TaxonomyKind `json:"-"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

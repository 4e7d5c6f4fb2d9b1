package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.Product, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Product, error)
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
	// Update persists p and, in the same transaction, refreshes the stock
	// status of every stored row of the product from p.MinQuantity.
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// CountByTaxonomy counts products referencing a product type or unit type.
	CountByTaxonomy(ctx context.Context, kind models.TaxonomyKind, id uuid.UUID) (int, error)
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// StorageRepository persists storages and the products kept in them.
type StorageRepository interface {
	// Create fails with ErrDuplicatedValueUnique when the user already owns a storage.
	Create(ctx context.Context, s models.Storage) (models.Storage, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (models.Storage, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.Storage, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	ListProducts(ctx context.Context, storageID uuid.UUID) ([]models.StorageProduct, error)
	GetProduct(ctx context.Context, storageID, productID uuid.UUID) (models.StorageProduct, error)
	// AddProducts inserts all rows or none. Implementations backed by a shared
	// database derive each status from the product's current minimum quantity
	// inside the write.
	AddProducts(ctx context.Context, rows []models.StorageProduct) error
	// UpdateProduct stores sp and returns the row as written, status included.
	UpdateProduct(ctx context.Context, sp models.StorageProduct) (models.StorageProduct, error)
	RemoveProduct(ctx context.Context, storageID, productID uuid.UUID) error

	IsProductStored(ctx context.Context, productID uuid.UUID) (bool, error)
	CountBrandReferences(ctx context.Context, brandID uuid.UUID) (int, error)
}

// StatusRecomputer refreshes the status of every stored row of a product
// after its minimum quantity changed.
type StatusRecomputer interface {
	RecomputeStatus(ctx context.Context, productID uuid.UUID, minQuantity int) error
}

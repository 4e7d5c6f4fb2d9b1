package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// ShoppingListRepository persists shopping lists and their product lines.
type ShoppingListRepository interface {
	Create(ctx context.Context, l models.ShoppingList) (models.ShoppingList, error)
	// CreateWithProducts stores the list together with its lines, all or nothing.
	CreateWithProducts(ctx context.Context, l models.ShoppingList, lines []models.ShoppingListProduct) (models.ShoppingList, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.ShoppingList, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	ListProducts(ctx context.Context, listID uuid.UUID) ([]models.ShoppingListProduct, error)
	GetProduct(ctx context.Context, listID, productID uuid.UUID) (models.ShoppingListProduct, error)
	AddProducts(ctx context.Context, lines []models.ShoppingListProduct) error
	RemoveProduct(ctx context.Context, listID, productID uuid.UUID) error

	HasOpenListWithProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	CountBrandReferences(ctx context.Context, brandID uuid.UUID) (int, error)
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// BrandRepository stores brands. Every lookup is scoped to the owning user.
type BrandRepository interface {
	Create(ctx context.Context, b models.Brand) (models.Brand, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.Brand, error)
	// GetByName matches names case-insensitively.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Brand, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Brand, error)
	Update(ctx context.Context, b models.Brand) (models.Brand, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

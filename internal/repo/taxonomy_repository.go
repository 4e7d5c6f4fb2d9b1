package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// TaxonomyRepository stores either product types or unit types, depending on
// the kind it was built for.
type TaxonomyRepository interface {
	Kind() models.TaxonomyKind
	Create(ctx context.Context, t models.Taxonomy) (models.Taxonomy, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (models.Taxonomy, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Taxonomy, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Taxonomy, error)
	Update(ctx context.Context, t models.Taxonomy) (models.Taxonomy, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

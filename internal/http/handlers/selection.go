package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

// productRef is one requested product of a bulk add to a storage or a shopping list.
type productRef struct {
	ProductID uuid.UUID
	BrandID   *uuid.UUID
	Quantity  int
}

type selectedProduct struct {
	productRef
	Product models.Product
}

// selectProducts keeps the refs naming a product of the user, with an existing
// brand when one is given, that are not yet in the target and not repeated in
// the request. The reasons for every rejected ref are returned as causes.
func selectProducts(
	ctx context.Context,
	userID uuid.UUID,
	refs []productRef,
	inTarget func(ctx context.Context, productID uuid.UUID) (bool, error),
	targetName string,
) ([]selectedProduct, []ValidationError, error) {
	var (
		selected []selectedProduct
		causes   []ValidationError
	)
	seen := map[uuid.UUID]bool{}

	for i, ref := range refs {
		field := fmt.Sprintf("products[%d].publicId", i)
		reject := func(description string) {
			causes = append(causes, ValidationError{Field: field, Description: description})
		}

		if seen[ref.ProductID] {
			reject("Product is repeated in the request")
			continue
		}
		seen[ref.ProductID] = true

		product, err := productRepo.GetByID(ctx, userID, ref.ProductID)
		if errors.Is(err, repo.ErrProductNotFound) {
			reject("Product not found")
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		if ref.BrandID != nil {
			_, err := brandRepo.GetByID(ctx, userID, *ref.BrandID)
			if errors.Is(err, repo.ErrBrandNotFound) {
				reject("Brand not found")
				continue
			}
			if err != nil {
				return nil, nil, err
			}
		}

		present, err := inTarget(ctx, ref.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if present {
			reject("Product is already in " + targetName)
			continue
		}

		selected = append(selected, selectedProduct{productRef: ref, Product: product})
	}

	return selected, causes, nil
}

// nameLookup resolves product and brand names of the user for response enrichment.
type nameLookup struct {
	userID   uuid.UUID
	products map[uuid.UUID]models.Product
	brands   map[uuid.UUID]string
}

func newNameLookup(ctx context.Context, userID uuid.UUID) (*nameLookup, error) {
	brands, err := brandRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	l := &nameLookup{
		userID:   userID,
		products: map[uuid.UUID]models.Product{},
		brands:   make(map[uuid.UUID]string, len(brands)),
	}
	for _, b := range brands {
		l.brands[b.ID] = b.Name
	}
	return l, nil
}

func (l *nameLookup) product(ctx context.Context, id uuid.UUID) (models.Product, error) {
	if p, ok := l.products[id]; ok {
		return p, nil
	}
	p, err := productRepo.GetByID(ctx, l.userID, id)
	if err != nil {
		return models.Product{}, err
	}
	l.products[id] = p
	return p, nil
}

func (l *nameLookup) brand(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return l.brands[*id]
}

package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	statuses StatusRecomputer
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

// SetStatusRecomputer makes Update refresh the stock status of stored rows.
func (r *InMemoryProductRepository) SetStatusRecomputer(s StatusRecomputer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = s
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if p.UserID != pf.UserID {
		return false
	}
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.ProductTypeID != nil && p.ProductTypeID != *pf.ProductTypeID {
		return false
	}
	if pf.UnitTypeID != nil && p.UnitTypeID != *pf.UnitTypeID {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if pf.Limit != nil && *pf.Limit > 0 {
		end = clamp(start+*pf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.UserID == p.UserID && strings.EqualFold(existing.Name, p.Name) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	r.products = append(r.products, p)
	return p, nil
}

// GetByID retrieves a product owned by userID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, userID, id uuid.UUID) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id && p.UserID == userID {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByName(_ context.Context, userID uuid.UUID, name string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.UserID == userID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, existing := range r.products {
		if existing.ID == p.ID && existing.UserID == p.UserID {
			idx = i
		} else if existing.UserID == p.UserID && strings.EqualFold(existing.Name, p.Name) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.statuses != nil {
		if err := r.statuses.RecomputeStatus(ctx, p.ID, p.MinQuantity); err != nil {
			return models.Product{}, err
		}
	}
	p.CreatedAt = r.products[idx].CreatedAt
	r.products[idx] = p
	return p, nil
}

// Delete removes a product from the repository.
func (r *InMemoryProductRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id && p.UserID == userID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryProductRepository) CountByTaxonomy(_ context.Context, kind models.TaxonomyKind, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, p := range r.products {
		if (kind == models.KindProductType && p.ProductTypeID == id) || (kind == models.KindUnitType && p.UnitTypeID == id) {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

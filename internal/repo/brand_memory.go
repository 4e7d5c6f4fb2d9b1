package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type InMemoryBrandRepository struct {
	mu     sync.Mutex
	brands []models.Brand
}

func NewInMemoryBrandRepository() *InMemoryBrandRepository {
	return &InMemoryBrandRepository{brands: []models.Brand{}}
}

func (r *InMemoryBrandRepository) Create(_ context.Context, b models.Brand) (models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insert(b)
}

func (r *InMemoryBrandRepository) insert(b models.Brand) (models.Brand, error) {
	for _, existing := range r.brands {
		if existing.UserID == b.UserID && strings.EqualFold(existing.Name, b.Name) {
			return models.Brand{}, ErrDuplicatedValueUnique
		}
	}
	r.brands = append(r.brands, b)
	return b, nil
}

func (r *InMemoryBrandRepository) GetByID(_ context.Context, userID, id uuid.UUID) (models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.brands {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return models.Brand{}, ErrBrandNotFound
}

func (r *InMemoryBrandRepository) GetByName(_ context.Context, userID uuid.UUID, name string) (models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.brands {
		if b.UserID == userID && strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return models.Brand{}, ErrBrandNotFound
}

func (r *InMemoryBrandRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	brands := []models.Brand{}
	for _, b := range r.brands {
		if b.UserID == userID {
			brands = append(brands, b)
		}
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })
	return brands, nil
}

func (r *InMemoryBrandRepository) Update(_ context.Context, b models.Brand) (models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, existing := range r.brands {
		if existing.ID == b.ID && existing.UserID == b.UserID {
			idx = i
		} else if existing.UserID == b.UserID && strings.EqualFold(existing.Name, b.Name) {
			return models.Brand{}, ErrDuplicatedValueUnique
		}
	}
	if idx < 0 {
		return models.Brand{}, ErrBrandNotFound
	}
	b.CreatedAt = r.brands[idx].CreatedAt
	r.brands[idx] = b
	return b, nil
}

func (r *InMemoryBrandRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.brands {
		if b.ID == id && b.UserID == userID {
			r.brands = append(r.brands[:i], r.brands[i+1:]...)
			return nil
		}
	}
	return ErrBrandNotFound
}

func (r *InMemoryBrandRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brands = []models.Brand{}
}

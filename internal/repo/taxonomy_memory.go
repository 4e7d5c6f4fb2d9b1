package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type InMemoryTaxonomyRepository struct {
	mu      sync.Mutex
	kind    models.TaxonomyKind
	entries []models.Taxonomy
}

func NewInMemoryProductTypeRepository() *InMemoryTaxonomyRepository {
	return &InMemoryTaxonomyRepository{kind: models.KindProductType, entries: []models.Taxonomy{}}
}

func NewInMemoryUnitTypeRepository() *InMemoryTaxonomyRepository {
	return &InMemoryTaxonomyRepository{kind: models.KindUnitType, entries: []models.Taxonomy{}}
}

func (r *InMemoryTaxonomyRepository) Kind() models.TaxonomyKind {
	return r.kind
}

func (r *InMemoryTaxonomyRepository) Create(_ context.Context, t models.Taxonomy) (models.Taxonomy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == t.UserID && strings.EqualFold(e.Name, t.Name) {
			return models.Taxonomy{}, ErrDuplicatedValueUnique
		}
	}
	t.Kind = r.kind
	r.entries = append(r.entries, t)
	return t, nil
}

func (r *InMemoryTaxonomyRepository) GetByID(_ context.Context, userID, id uuid.UUID) (models.Taxonomy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return models.Taxonomy{}, ErrTaxonomyNotFound
}

func (r *InMemoryTaxonomyRepository) GetByName(_ context.Context, userID uuid.UUID, name string) (models.Taxonomy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.UserID == userID && strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return models.Taxonomy{}, ErrTaxonomyNotFound
}

func (r *InMemoryTaxonomyRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Taxonomy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := []models.Taxonomy{}
	for _, e := range r.entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (r *InMemoryTaxonomyRepository) Update(_ context.Context, t models.Taxonomy) (models.Taxonomy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, e := range r.entries {
		if e.ID == t.ID && e.UserID == t.UserID {
			idx = i
		} else if e.UserID == t.UserID && strings.EqualFold(e.Name, t.Name) {
			return models.Taxonomy{}, ErrDuplicatedValueUnique
		}
	}
	if idx < 0 {
		return models.Taxonomy{}, ErrTaxonomyNotFound
	}
	t.Kind = r.kind
	t.CreatedAt = r.entries[idx].CreatedAt
	r.entries[idx] = t
	return t, nil
}

func (r *InMemoryTaxonomyRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ErrTaxonomyNotFound
}

func (r *InMemoryTaxonomyRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = []models.Taxonomy{}
}

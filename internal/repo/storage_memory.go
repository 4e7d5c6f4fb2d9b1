package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

type InMemoryStorageRepository struct {
	mu       sync.Mutex
	storages []models.Storage
	products []models.StorageProduct
}

func NewInMemoryStorageRepository() *InMemoryStorageRepository {
	return &InMemoryStorageRepository{
		storages: []models.Storage{},
		products: []models.StorageProduct{},
	}
}

func (r *InMemoryStorageRepository) Create(_ context.Context, s models.Storage) (models.Storage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.storages {
		if existing.UserID == s.UserID {
			return models.Storage{}, ErrDuplicatedValueUnique
		}
	}
	r.storages = append(r.storages, s)
	return s, nil
}

func (r *InMemoryStorageRepository) GetByUser(_ context.Context, userID uuid.UUID) (models.Storage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.storages {
		if s.UserID == userID {
			return s, nil
		}
	}
	return models.Storage{}, ErrStorageNotFound
}

func (r *InMemoryStorageRepository) GetByID(_ context.Context, userID, id uuid.UUID) (models.Storage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.storages {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return models.Storage{}, ErrStorageNotFound
}

func (r *InMemoryStorageRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.storages {
		if s.ID == id && s.UserID == userID {
			r.storages = append(r.storages[:i], r.storages[i+1:]...)
			return nil
		}
	}
	return ErrStorageNotFound
}

func (r *InMemoryStorageRepository) ListProducts(_ context.Context, storageID uuid.UUID) ([]models.StorageProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := []models.StorageProduct{}
	for _, sp := range r.products {
		if sp.StorageID == storageID {
			products = append(products, sp)
		}
	}
	return products, nil
}

func (r *InMemoryStorageRepository) GetProduct(_ context.Context, storageID, productID uuid.UUID) (models.StorageProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(storageID, productID); i >= 0 {
		return r.products[i], nil
	}
	return models.StorageProduct{}, ErrStorageProductNotFound
}

func (r *InMemoryStorageRepository) indexOf(storageID, productID uuid.UUID) int {
	for i, sp := range r.products {
		if sp.StorageID == storageID && sp.ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *InMemoryStorageRepository) AddProducts(_ context.Context, rows []models.StorageProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[uuid.UUID]bool{}
	for _, sp := range rows {
		if r.indexOf(sp.StorageID, sp.ProductID) >= 0 || seen[sp.ProductID] {
			return ErrDuplicatedValueUnique
		}
		seen[sp.ProductID] = true
	}
	r.products = append(r.products, rows...)
	return nil
}

func (r *InMemoryStorageRepository) UpdateProduct(_ context.Context, sp models.StorageProduct) (models.StorageProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(sp.StorageID, sp.ProductID)
	if i < 0 {
		return models.StorageProduct{}, ErrStorageProductNotFound
	}
	sp.ID = r.products[i].ID
	sp.CreatedAt = r.products[i].CreatedAt
	r.products[i] = sp
	return sp, nil
}

func (r *InMemoryStorageRepository) RemoveProduct(_ context.Context, storageID, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(storageID, productID)
	if i < 0 {
		return ErrStorageProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *InMemoryStorageRepository) RecomputeStatus(_ context.Context, productID uuid.UUID, minQuantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for i, sp := range r.products {
		if sp.ProductID == productID {
			r.products[i].Status = stock.ComputeStatus(sp.Quantity, minQuantity)
			r.products[i].UpdatedAt = now
		}
	}
	return nil
}

// restockOverflows must be called with r.mu held.
func (r *InMemoryStorageRepository) restockOverflows(rs models.Restock) bool {
	if i := r.indexOf(rs.StorageID, rs.ProductID); i >= 0 {
		return r.products[i].Quantity > MaxQuantity-rs.Quantity
	}
	return false
}

// restock must be called with r.mu held.
func (r *InMemoryStorageRepository) restock(rs models.Restock, now time.Time) {
	if i := r.indexOf(rs.StorageID, rs.ProductID); i >= 0 {
		sp := &r.products[i]
		sp.Quantity += rs.Quantity
		sp.Status = stock.ComputeStatus(sp.Quantity, rs.MinQuantity)
		if rs.BrandID != nil {
			sp.BrandID = rs.BrandID
		}
		sp.UpdatedAt = now
		return
	}
	r.products = append(r.products, models.StorageProduct{
		ID:        uuid.New(),
		StorageID: rs.StorageID,
		ProductID: rs.ProductID,
		BrandID:   rs.BrandID,
		Quantity:  rs.Quantity,
		Status:    stock.ComputeStatus(rs.Quantity, rs.MinQuantity),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (r *InMemoryStorageRepository) IsProductStored(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sp := range r.products {
		if sp.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryStorageRepository) CountBrandReferences(_ context.Context, brandID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, sp := range r.products {
		if sp.BrandID != nil && *sp.BrandID == brandID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryStorageRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storages = []models.Storage{}
	r.products = []models.StorageProduct{}
}

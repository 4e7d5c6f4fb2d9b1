package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type InMemoryShoppingListRepository struct {
	mu    sync.Mutex
	lists []models.ShoppingList
	lines []models.ShoppingListProduct
}

func NewInMemoryShoppingListRepository() *InMemoryShoppingListRepository {
	return &InMemoryShoppingListRepository{
		lists: []models.ShoppingList{},
		lines: []models.ShoppingListProduct{},
	}
}

func (r *InMemoryShoppingListRepository) Create(_ context.Context, l models.ShoppingList) (models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists = append(r.lists, l)
	return l, nil
}

func (r *InMemoryShoppingListRepository) CreateWithProducts(_ context.Context, l models.ShoppingList, lines []models.ShoppingListProduct) (models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hasDuplicateProducts(lines) {
		return models.ShoppingList{}, ErrDuplicatedValueUnique
	}
	r.lists = append(r.lists, l)
	r.lines = append(r.lines, lines...)
	return l, nil
}

func hasDuplicateProducts(lines []models.ShoppingListProduct) bool {
	seen := map[[2]uuid.UUID]bool{}
	for _, lp := range lines {
		key := [2]uuid.UUID{lp.ShoppingListID, lp.ProductID}
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func (r *InMemoryShoppingListRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists := []models.ShoppingList{}
	for _, l := range r.lists {
		if l.UserID == userID {
			lists = append(lists, l)
		}
	}
	sort.SliceStable(lists, func(i, j int) bool { return lists[i].CreatedAt.After(lists[j].CreatedAt) })
	return lists, nil
}

func (r *InMemoryShoppingListRepository) GetByID(_ context.Context, userID, id uuid.UUID) (models.ShoppingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.lists {
		if l.ID == id && l.UserID == userID {
			return l, nil
		}
	}
	return models.ShoppingList{}, ErrShoppingListNotFound
}

func (r *InMemoryShoppingListRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.lists {
		if l.ID == id && l.UserID == userID {
			r.lists = append(r.lists[:i], r.lists[i+1:]...)
			kept := r.lines[:0]
			for _, lp := range r.lines {
				if lp.ShoppingListID != id {
					kept = append(kept, lp)
				}
			}
			r.lines = kept
			return nil
		}
	}
	return ErrShoppingListNotFound
}

func (r *InMemoryShoppingListRepository) ListProducts(_ context.Context, listID uuid.UUID) ([]models.ShoppingListProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := []models.ShoppingListProduct{}
	for _, lp := range r.lines {
		if lp.ShoppingListID == listID {
			lines = append(lines, lp)
		}
	}
	return lines, nil
}

func (r *InMemoryShoppingListRepository) GetProduct(_ context.Context, listID, productID uuid.UUID) (models.ShoppingListProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.lineIndex(listID, productID); i >= 0 {
		return r.lines[i], nil
	}
	return models.ShoppingListProduct{}, ErrListProductNotFound
}

func (r *InMemoryShoppingListRepository) lineIndex(listID, productID uuid.UUID) int {
	for i, lp := range r.lines {
		if lp.ShoppingListID == listID && lp.ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *InMemoryShoppingListRepository) listIndex(id uuid.UUID) int {
	for i, l := range r.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryShoppingListRepository) AddProducts(_ context.Context, lines []models.ShoppingListProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hasDuplicateProducts(lines) {
		return ErrDuplicatedValueUnique
	}
	for _, lp := range lines {
		if r.lineIndex(lp.ShoppingListID, lp.ProductID) >= 0 {
			return ErrDuplicatedValueUnique
		}
	}
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *InMemoryShoppingListRepository) RemoveProduct(_ context.Context, listID, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.lineIndex(listID, productID)
	if i < 0 {
		return ErrListProductNotFound
	}
	r.lines = append(r.lines[:i], r.lines[i+1:]...)
	return nil
}

func (r *InMemoryShoppingListRepository) HasOpenListWithProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, lp := range r.lines {
		if lp.ProductID != productID {
			continue
		}
		if i := r.listIndex(lp.ShoppingListID); i >= 0 && !r.lists[i].Completed() {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryShoppingListRepository) CountBrandReferences(_ context.Context, brandID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, lp := range r.lines {
		if lp.BrandID != nil && *lp.BrandID == brandID {
			count++
		}
	}
	return count, nil
}

func (r *InMemoryShoppingListRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = []models.ShoppingList{}
	r.lines = []models.ShoppingListProduct{}
}

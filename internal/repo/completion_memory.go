package repo

import (
	"context"
	"strings"

	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type InMemoryCompletionRepository struct {
	brandRepo    *InMemoryBrandRepository
	listRepo     *InMemoryShoppingListRepository
	storageRepo  *InMemoryStorageRepository
	priceLogRepo *InMemoryPriceLogRepository
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{}
}

func (r *InMemoryCompletionRepository) SetRepositories(
	brandRepo *InMemoryBrandRepository,
	listRepo *InMemoryShoppingListRepository,
	storageRepo *InMemoryStorageRepository,
	priceLogRepo *InMemoryPriceLogRepository,
) {
	r.brandRepo = brandRepo
	r.listRepo = listRepo
	r.storageRepo = storageRepo
	r.priceLogRepo = priceLogRepo
}

// CompleteShoppingList validates every write before applying any of them.
func (r *InMemoryCompletionRepository) CompleteShoppingList(_ context.Context, c models.Completion) error {
	r.brandRepo.mu.Lock()
	defer r.brandRepo.mu.Unlock()
	r.listRepo.mu.Lock()
	defer r.listRepo.mu.Unlock()
	r.storageRepo.mu.Lock()
	defer r.storageRepo.mu.Unlock()
	r.priceLogRepo.mu.Lock()
	defer r.priceLogRepo.mu.Unlock()

	li := r.listRepo.listIndex(c.ShoppingListID)
	if li < 0 {
		return ErrShoppingListNotFound
	}
	if r.listRepo.lists[li].Completed() {
		return ErrListCompleted
	}

	lineIdx := make([]int, len(c.Lines))
	for i, lp := range c.Lines {
		lineIdx[i] = r.listRepo.lineIndex(c.ShoppingListID, lp.ProductID)
		if lineIdx[i] < 0 {
			return ErrListProductNotFound
		}
	}

	for _, rs := range c.Restocks {
		if r.storageRepo.restockOverflows(rs) {
			return ErrQuantityTooLarge
		}
	}

	for i, b := range c.Brands {
		for _, existing := range r.brandRepo.brands {
			if existing.UserID == b.UserID && strings.EqualFold(existing.Name, b.Name) {
				return ErrDuplicatedValueUnique
			}
		}
		for _, other := range c.Brands[:i] {
			if other.UserID == b.UserID && strings.EqualFold(other.Name, b.Name) {
				return ErrDuplicatedValueUnique
			}
		}
	}

	for _, b := range c.Brands {
		if _, err := r.brandRepo.insert(b); err != nil {
			return err
		}
	}

	for i, lp := range c.Lines {
		line := &r.listRepo.lines[lineIdx[i]]
		line.BrandID = lp.BrandID
		line.QuantityBought = lp.QuantityBought
		line.PricePaidPerItem = lp.PricePaidPerItem
		line.TotalPricePaid = lp.TotalPricePaid
		line.UpdatedAt = c.CompletedAt
	}

	for _, rs := range c.Restocks {
		r.storageRepo.restock(rs, c.CompletedAt)
	}

	r.priceLogRepo.logs = append(r.priceLogRepo.logs, c.PriceLogs...)

	completedAt := c.CompletedAt
	r.listRepo.lists[li].CompletedAt = &completedAt
	return nil
}

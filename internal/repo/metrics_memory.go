package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
	storageRepo StorageRepository
	listRepo    ShoppingListRepository
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (Metrics, error) {
	m := Metrics{TotalSpent: decimal.Zero}

	_, total, err := i.productRepo.Filter(ctx, ProductFilter{UserID: userID})
	if err != nil {
		return m, err
	}
	m.TotalProducts = total

	storage, err := i.storageRepo.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, ErrStorageNotFound):
	case err != nil:
		return m, err
	default:
		stored, err := i.storageRepo.ListProducts(ctx, storage.ID)
		if err != nil {
			return m, err
		}
		for _, sp := range stored {
			m.addStatus(sp.Status, 1)
		}
	}

	lists, err := i.listRepo.ListByUser(ctx, userID)
	if err != nil {
		return m, err
	}
	for _, l := range lists {
		if l.Completed() {
			m.CompletedShoppingLists++
		} else {
			m.OpenShoppingLists++
		}

		lines, err := i.listRepo.ListProducts(ctx, l.ID)
		if err != nil {
			return m, err
		}
		for _, lp := range lines {
			if lp.TotalPricePaid.Valid {
				m.TotalSpent = m.TotalSpent.Add(lp.TotalPricePaid.Decimal)
			}
		}
	}

	return m, nil
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	storageRepo StorageRepository,
	listRepo ShoppingListRepository,
) {
	i.productRepo = productRepo
	i.storageRepo = storageRepo
	i.listRepo = listRepo
}

package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type InMemoryPriceLogRepository struct {
	mu   sync.Mutex
	logs []models.PriceLog
}

func NewInMemoryPriceLogRepository() *InMemoryPriceLogRepository {
	return &InMemoryPriceLogRepository{logs: []models.PriceLog{}}
}

func (r *InMemoryPriceLogRepository) Log(_ context.Context, pl models.PriceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, pl)
	return nil
}

// GetByProductID returns the prices paid for a product, optionally filtered by date range and paginated
func (r *InMemoryPriceLogRepository) GetByProductID(_ context.Context, productID uuid.UUID, pf PriceLogFilter) ([]models.PriceLog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.PriceLog{}
	for _, pl := range r.logs {
		if pl.ProductID != productID {
			continue
		}
		if (pf.Since != nil && pl.LoggedAt.Before(*pf.Since)) || (pf.Until != nil && pl.LoggedAt.After(*pf.Until)) {
			continue
		}
		filtered = append(filtered, pl)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].LoggedAt.After(filtered[j].LoggedAt) })

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if pf.Limit != nil {
		limit = min(*pf.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryPriceLogRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = []models.PriceLog{}
}

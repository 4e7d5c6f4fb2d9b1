package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type PriceLogFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

type PriceLogRepository interface {
	Log(ctx context.Context, pl models.PriceLog) error
	GetByProductID(ctx context.Context, productID uuid.UUID, pf PriceLogFilter) ([]models.PriceLog, int, error)
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StockStatusCounts struct {
	Fine           int `json:"fine"`
	NeedsAttention int `json:"needs_attention"`
	InRisk         int `json:"in_risk"`
}

type Metrics struct {
	TotalProducts          int               `json:"total_products"`
	StoredProducts         int               `json:"stored_products"`
	StockStatus            StockStatusCounts `json:"stock_status"`
	OpenShoppingLists      int               `json:"open_shopping_lists"`
	CompletedShoppingLists int               `json:"completed_shopping_lists"`
	TotalSpent             decimal.Decimal   `json:"total_spent"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (Metrics, error)
}

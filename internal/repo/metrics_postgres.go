package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context, userID uuid.UUID) (Metrics, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var m Metrics

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&m.TotalProducts); err != nil {
		return m, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT sp.status, COUNT(*)
		FROM storage_products sp
		JOIN storages s ON s.public_id = sp.storage_id
		WHERE s.user_id = $1
		GROUP BY sp.status
	`, userID)
	if err != nil {
		return m, fmt.Errorf("failed to count stored products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return m, err
		}
		parsed, err := stock.ParseStatus(status)
		if err != nil {
			return m, err
		}
		m.addStatus(parsed, count)
	}
	if err := rows.Err(); err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE completed_at IS NULL), COUNT(*) FILTER (WHERE completed_at IS NOT NULL)
		FROM shopping_lists WHERE user_id = $1
	`, userID).Scan(&m.OpenShoppingLists, &m.CompletedShoppingLists)
	if err != nil {
		return m, fmt.Errorf("failed to count shopping lists: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(lp.total_price_paid), 0)
		FROM shopping_list_products lp
		JOIN shopping_lists l ON l.public_id = lp.shopping_list_id
		WHERE l.user_id = $1
	`, userID).Scan(&m.TotalSpent)
	if err != nil {
		return m, fmt.Errorf("failed to sum spending: %w", err)
	}

	return m, nil
}

func (m *Metrics) addStatus(s stock.Status, count int) {
	m.StoredProducts += count
	switch s {
	case stock.Fine:
		m.StockStatus.Fine += count
	case stock.NeedsAttention:
		m.StockStatus.NeedsAttention += count
	case stock.InRisk:
		m.StockStatus.InRisk += count
	}
}

package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type PostgresPriceLogRepository struct {
	db *sql.DB
}

func NewPostgresPriceLogRepository(db *sql.DB) *PostgresPriceLogRepository {
	return &PostgresPriceLogRepository{db: db}
}

const defaultLimit = 100

// Log inserts a new price entry
func (r *PostgresPriceLogRepository) Log(ctx context.Context, pl models.PriceLog) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return insertPriceLog(ctx, r.db, pl)
}

func insertPriceLog(ctx context.Context, db execer, pl models.PriceLog) error {
	query := `INSERT INTO product_price_logs (public_id, product_id, brand_id, price, logged_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := db.ExecContext(ctx, query, pl.ID, pl.ProductID, nullUUID(pl.BrandID), pl.Price, pl.LoggedAt); err != nil {
		return fmt.Errorf("failed to insert price log: %w", err)
	}
	return nil
}

// GetByProductID returns the prices paid for a product, newest first
func (r *PostgresPriceLogRepository) GetByProductID(ctx context.Context, productID uuid.UUID, pf PriceLogFilter) ([]models.PriceLog, int, error) {
	whereClause, args := buildPriceLogWhereClause(productID, pf)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_price_logs "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// limit = 0 means count only
	if pf.Limit != nil && *pf.Limit == 0 {
		return []models.PriceLog{}, total, nil
	}
	if pf.Offset != nil && *pf.Offset >= total {
		return []models.PriceLog{}, total, nil
	}

	query := fmt.Sprintf("SELECT public_id, product_id, brand_id, price, logged_at FROM product_price_logs %s ORDER BY logged_at DESC", whereClause)
	argIndex := len(args) + 1

	limit := defaultLimit
	if pf.Limit != nil && *pf.Limit > 0 {
		limit = min(*pf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	logs := []models.PriceLog{}
	for rows.Next() {
		var (
			pl      models.PriceLog
			brandID uuid.NullUUID
		)
		if err := rows.Scan(&pl.ID, &pl.ProductID, &brandID, &pl.Price, &pl.LoggedAt); err != nil {
			return nil, 0, err
		}
		pl.BrandID = uuidPtr(brandID)
		logs = append(logs, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func buildPriceLogWhereClause(productID uuid.UUID, pf PriceLogFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if pf.Since != nil {
		whereClause += fmt.Sprintf(" AND logged_at >= $%d", argIndex)
		args = append(args, *pf.Since)
		argIndex++
	}
	if pf.Until != nil {
		whereClause += fmt.Sprintf(" AND logged_at <= $%d", argIndex)
		args = append(args, *pf.Until)
	}

	return whereClause, args
}

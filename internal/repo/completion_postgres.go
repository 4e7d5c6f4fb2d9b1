package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

type PostgresCompletionRepository struct {
	db *sql.DB
}

func NewPostgresCompletionRepository(db *sql.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) CompleteShoppingList(ctx context.Context, c models.Completion) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE shopping_lists SET completed_at = $1 WHERE public_id = $2 AND completed_at IS NULL`, c.CompletedAt, c.ShoppingListID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrListCompleted
	}

	for _, b := range c.Brands {
		if _, err := insertBrand(ctx, tx, b); err != nil {
			return err
		}
	}

	for _, lp := range c.Lines {
		query := `UPDATE shopping_list_products
			SET brand_id = $1, quantity_bought = $2, price_paid_per_item = $3, total_price_paid = $4, updated_at = $5
			WHERE shopping_list_id = $6 AND product_id = $7`
		res, err := tx.ExecContext(ctx, query, nullUUID(lp.BrandID), lp.QuantityBought, lp.PricePaidPerItem, lp.TotalPricePaid, c.CompletedAt, c.ShoppingListID, lp.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update shopping list product: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrListProductNotFound
		}
	}

	for _, rs := range c.Restocks {
		if err := applyRestock(ctx, tx, rs, c); err != nil {
			return err
		}
	}

	for _, pl := range c.PriceLogs {
		if err := insertPriceLog(ctx, tx, pl); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func applyRestock(ctx context.Context, tx *sql.Tx, rs models.Restock, c models.Completion) error {
	minQuantity, err := lockedMinQuantity(ctx, tx, rs.ProductID)
	if err != nil {
		return err
	}

	var (
		id       uuid.UUID
		quantity int
	)
	err = tx.QueryRowContext(ctx, `SELECT public_id, quantity FROM storage_products WHERE storage_id = $1 AND product_id = $2 FOR UPDATE`, rs.StorageID, rs.ProductID).Scan(&id, &quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return insertStorageProduct(ctx, tx, models.StorageProduct{
			ID:        uuid.New(),
			StorageID: rs.StorageID,
			ProductID: rs.ProductID,
			BrandID:   rs.BrandID,
			Quantity:  rs.Quantity,
			Status:    stock.ComputeStatus(rs.Quantity, minQuantity),
			CreatedAt: c.CompletedAt,
			UpdatedAt: c.CompletedAt,
		})
	}
	if err != nil {
		return err
	}

	if quantity > MaxQuantity-rs.Quantity {
		return ErrQuantityTooLarge
	}
	quantity += rs.Quantity
	status := stock.ComputeStatus(quantity, minQuantity)

	query := `UPDATE storage_products SET quantity = $1, status = $2, brand_id = COALESCE($3, brand_id), updated_at = $4 WHERE public_id = $5`
	_, err = tx.ExecContext(ctx, query, quantity, string(status), nullUUID(rs.BrandID), c.CompletedAt, id)
	if err != nil {
		return fmt.Errorf("failed to restock product: %w", err)
	}
	return nil
}

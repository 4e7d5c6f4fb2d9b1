package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type PostgresShoppingListRepository struct {
	db *sql.DB
}

func NewPostgresShoppingListRepository(db *sql.DB) *PostgresShoppingListRepository {
	return &PostgresShoppingListRepository{db: db}
}

const (
	shoppingListColumns = `public_id, user_id, created_at, completed_at`
	listProductColumns  = `public_id, shopping_list_id, product_id, brand_id, quantity_bought, price_paid_per_item, total_price_paid, created_at, updated_at`
)

func scanShoppingList(row rowScanner) (models.ShoppingList, error) {
	var (
		l           models.ShoppingList
		completedAt sql.NullTime
	)
	err := row.Scan(&l.ID, &l.UserID, &l.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShoppingList{}, ErrShoppingListNotFound
	}
	if err != nil {
		return models.ShoppingList{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		l.CompletedAt = &t
	}
	return l, nil
}

func scanListProduct(row rowScanner) (models.ShoppingListProduct, error) {
	var (
		lp       models.ShoppingListProduct
		brandID  uuid.NullUUID
		quantity sql.NullInt64
	)
	err := row.Scan(&lp.ID, &lp.ShoppingListID, &lp.ProductID, &brandID, &quantity, &lp.PricePaidPerItem, &lp.TotalPricePaid, &lp.CreatedAt, &lp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShoppingListProduct{}, ErrListProductNotFound
	}
	if err != nil {
		return models.ShoppingListProduct{}, err
	}
	lp.BrandID = uuidPtr(brandID)
	if quantity.Valid {
		q := int(quantity.Int64)
		lp.QuantityBought = &q
	}
	return lp, nil
}

func (r *PostgresShoppingListRepository) Create(ctx context.Context, l models.ShoppingList) (models.ShoppingList, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := insertShoppingList(ctx, r.db, l); err != nil {
		return models.ShoppingList{}, err
	}
	return l, nil
}

func insertShoppingList(ctx context.Context, db execer, l models.ShoppingList) error {
	_, err := db.ExecContext(ctx, `INSERT INTO shopping_lists (`+shoppingListColumns+`) VALUES ($1, $2, $3, $4)`, l.ID, l.UserID, l.CreatedAt, l.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

func insertListProduct(ctx context.Context, db execer, lp models.ShoppingListProduct) error {
	query := `INSERT INTO shopping_list_products (` + listProductColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := db.ExecContext(ctx, query, lp.ID, lp.ShoppingListID, lp.ProductID, nullUUID(lp.BrandID), lp.QuantityBought, lp.PricePaidPerItem, lp.TotalPricePaid, lp.CreatedAt, lp.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicatedValueUnique
	}
	if err != nil {
		return fmt.Errorf("failed to insert shopping list product: %w", err)
	}
	return nil
}

func (r *PostgresShoppingListRepository) CreateWithProducts(ctx context.Context, l models.ShoppingList, lines []models.ShoppingListProduct) (models.ShoppingList, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ShoppingList{}, err
	}
	defer tx.Rollback()

	if err := insertShoppingList(ctx, tx, l); err != nil {
		return models.ShoppingList{}, err
	}
	for _, lp := range lines {
		if err := insertListProduct(ctx, tx, lp); err != nil {
			return models.ShoppingList{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.ShoppingList{}, err
	}
	return l, nil
}

func (r *PostgresShoppingListRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+shoppingListColumns+` FROM shopping_lists WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []models.ShoppingList{}
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *PostgresShoppingListRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.ShoppingList, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+shoppingListColumns+` FROM shopping_lists WHERE public_id = $1 AND user_id = $2`, id, userID)
	return scanShoppingList(row)
}

// Delete removes the list; its lines go with it through ON DELETE CASCADE.
func (r *PostgresShoppingListRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE public_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrShoppingListNotFound
	}
	return nil
}

func (r *PostgresShoppingListRepository) ListProducts(ctx context.Context, listID uuid.UUID) ([]models.ShoppingListProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+listProductColumns+` FROM shopping_list_products WHERE shopping_list_id = $1 ORDER BY created_at`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.ShoppingListProduct{}
	for rows.Next() {
		lp, err := scanListProduct(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, lp)
	}
	return lines, rows.Err()
}

func (r *PostgresShoppingListRepository) GetProduct(ctx context.Context, listID, productID uuid.UUID) (models.ShoppingListProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+listProductColumns+` FROM shopping_list_products WHERE shopping_list_id = $1 AND product_id = $2`, listID, productID)
	return scanListProduct(row)
}

func (r *PostgresShoppingListRepository) AddProducts(ctx context.Context, lines []models.ShoppingListProduct) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, lp := range lines {
		if err := insertListProduct(ctx, tx, lp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresShoppingListRepository) RemoveProduct(ctx context.Context, listID, productID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_list_products WHERE shopping_list_id = $1 AND product_id = $2`, listID, productID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrListProductNotFound
	}
	return nil
}

func (r *PostgresShoppingListRepository) HasOpenListWithProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT EXISTS (
		SELECT 1 FROM shopping_list_products lp
		JOIN shopping_lists l ON l.public_id = lp.shopping_list_id
		WHERE lp.product_id = $1 AND l.completed_at IS NULL
	)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&exists)
	return exists, err
}

func (r *PostgresShoppingListRepository) CountBrandReferences(ctx context.Context, brandID uuid.UUID) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shopping_list_products WHERE brand_id = $1`, brandID).Scan(&count)
	return count, err
}

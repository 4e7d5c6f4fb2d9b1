package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

type PostgresStorageRepository struct {
	db *sql.DB
}

func NewPostgresStorageRepository(db *sql.DB) *PostgresStorageRepository {
	return &PostgresStorageRepository{db: db}
}

const storageProductColumns = `public_id, storage_id, product_id, brand_id, quantity, status, created_at, updated_at`

func scanStorage(row rowScanner) (models.Storage, error) {
	var s models.Storage
	err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Storage{}, ErrStorageNotFound
	}
	return s, err
}

func scanStorageProduct(row rowScanner) (models.StorageProduct, error) {
	var (
		sp      models.StorageProduct
		brandID uuid.NullUUID
		status  string
	)
	err := row.Scan(&sp.ID, &sp.StorageID, &sp.ProductID, &brandID, &sp.Quantity, &status, &sp.CreatedAt, &sp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StorageProduct{}, ErrStorageProductNotFound
	}
	if err != nil {
		return models.StorageProduct{}, err
	}
	sp.BrandID = uuidPtr(brandID)
	if sp.Status, err = stock.ParseStatus(status); err != nil {
		return models.StorageProduct{}, err
	}
	return sp, nil
}

func (r *PostgresStorageRepository) Create(ctx context.Context, s models.Storage) (models.Storage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO storages (public_id, user_id, created_at) VALUES ($1, $2, $3)`, s.ID, s.UserID, s.CreatedAt)
	if isUniqueViolation(err) {
		return models.Storage{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Storage{}, fmt.Errorf("failed to insert storage: %w", err)
	}
	return s, nil
}

func (r *PostgresStorageRepository) GetByUser(ctx context.Context, userID uuid.UUID) (models.Storage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT public_id, user_id, created_at FROM storages WHERE user_id = $1`, userID)
	return scanStorage(row)
}

func (r *PostgresStorageRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Storage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT public_id, user_id, created_at FROM storages WHERE public_id = $1 AND user_id = $2`, id, userID)
	return scanStorage(row)
}

func (r *PostgresStorageRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM storages WHERE public_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrStorageNotFound
	}
	return nil
}

func (r *PostgresStorageRepository) ListProducts(ctx context.Context, storageID uuid.UUID) ([]models.StorageProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+storageProductColumns+` FROM storage_products WHERE storage_id = $1 ORDER BY created_at`, storageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.StorageProduct{}
	for rows.Next() {
		sp, err := scanStorageProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, sp)
	}
	return products, rows.Err()
}

func (r *PostgresStorageRepository) GetProduct(ctx context.Context, storageID, productID uuid.UUID) (models.StorageProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+storageProductColumns+` FROM storage_products WHERE storage_id = $1 AND product_id = $2`, storageID, productID)
	return scanStorageProduct(row)
}

func (r *PostgresStorageRepository) AddProducts(ctx context.Context, rows []models.StorageProduct) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, sp := range rows {
		if sp.Status, err = lockedStatus(ctx, tx, sp.ProductID, sp.Quantity); err != nil {
			return err
		}
		if err := insertStorageProduct(ctx, tx, sp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertStorageProduct(ctx context.Context, db execer, sp models.StorageProduct) error {
	query := `INSERT INTO storage_products (` + storageProductColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.ExecContext(ctx, query, sp.ID, sp.StorageID, sp.ProductID, nullUUID(sp.BrandID), sp.Quantity, string(sp.Status), sp.CreatedAt, sp.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicatedValueUnique
	}
	if err != nil {
		return fmt.Errorf("failed to insert storage product: %w", err)
	}
	return nil
}

func (r *PostgresStorageRepository) UpdateProduct(ctx context.Context, sp models.StorageProduct) (models.StorageProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.StorageProduct{}, err
	}
	defer tx.Rollback()

	if sp.Status, err = lockedStatus(ctx, tx, sp.ProductID, sp.Quantity); err != nil {
		return models.StorageProduct{}, err
	}

	query := `UPDATE storage_products SET brand_id = $1, quantity = $2, status = $3, updated_at = $4
		WHERE storage_id = $5 AND product_id = $6`
	res, err := tx.ExecContext(ctx, query, nullUUID(sp.BrandID), sp.Quantity, string(sp.Status), sp.UpdatedAt, sp.StorageID, sp.ProductID)
	if err != nil {
		return models.StorageProduct{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.StorageProduct{}, ErrStorageProductNotFound
	}
	if err := tx.Commit(); err != nil {
		return models.StorageProduct{}, err
	}
	return sp, nil
}

func (r *PostgresStorageRepository) RemoveProduct(ctx context.Context, storageID, productID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM storage_products WHERE storage_id = $1 AND product_id = $2`, storageID, productID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrStorageProductNotFound
	}
	return nil
}

// lockedMinQuantity reads the product's minimum quantity and holds a share
// lock on the product row until tx ends, so a concurrent product update
// cannot change the threshold under a status being written.
func lockedMinQuantity(ctx context.Context, tx *sql.Tx, productID uuid.UUID) (int, error) {
	var minQuantity int
	err := tx.QueryRowContext(ctx, `SELECT min_quantity FROM products WHERE public_id = $1 FOR SHARE`, productID).Scan(&minQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return minQuantity, err
}

func lockedStatus(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity int) (stock.Status, error) {
	minQuantity, err := lockedMinQuantity(ctx, tx, productID)
	if err != nil {
		return "", err
	}
	return stock.ComputeStatus(quantity, minQuantity), nil
}

// recomputeStatus rewrites the status of every stored row of a product inside tx.
func recomputeStatus(ctx context.Context, tx *sql.Tx, productID uuid.UUID, minQuantity int, now time.Time) error {
	rows, err := tx.QueryContext(ctx, `SELECT public_id, quantity FROM storage_products WHERE product_id = $1 FOR UPDATE`, productID)
	if err != nil {
		return err
	}
	type stored struct {
		id       uuid.UUID
		quantity int
	}
	var found []stored
	for rows.Next() {
		var s stored
		if err := rows.Scan(&s.id, &s.quantity); err != nil {
			rows.Close()
			return err
		}
		found = append(found, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, s := range found {
		status := stock.ComputeStatus(s.quantity, minQuantity)
		if _, err := tx.ExecContext(ctx, `UPDATE storage_products SET status = $1, updated_at = $2 WHERE public_id = $3`, string(status), now, s.id); err != nil {
			return fmt.Errorf("failed to recompute stock status: %w", err)
		}
	}
	return nil
}

func (r *PostgresStorageRepository) IsProductStored(ctx context.Context, productID uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM storage_products WHERE product_id = $1)`, productID).Scan(&exists)
	return exists, err
}

func (r *PostgresStorageRepository) CountBrandReferences(ctx context.Context, brandID uuid.UUID) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM storage_products WHERE brand_id = $1`, brandID).Scan(&count)
	return count, err
}

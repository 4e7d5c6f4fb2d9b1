package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `public_id, user_id, name, description, product_type_id, unit_type_id, min_quantity, created_at, updated_at`

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.ProductTypeID, &p.UnitTypeID, &p.MinQuantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, p.Description, p.ProductTypeID, p.UnitTypeID, p.MinQuantity, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE public_id = $1 AND user_id = $2`, id, userID)
	return scanProduct(row)
}

func (r *PostgresProductRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 AND lower(name) = $2`, userID, strings.ToLower(name))
	return scanProduct(row)
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE user_id = $1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1`
	query += conditions
	query += " ORDER BY name"

	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	args := []any{pf.UserID}
	argIdx := 2

	if pf.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Name+"%")
		argIdx++
	}
	if pf.ProductTypeID != nil {
		query += fmt.Sprintf(" AND product_type_id = $%d", argIdx)
		args = append(args, *pf.ProductTypeID)
		argIdx++
	}
	if pf.UnitTypeID != nil {
		query += fmt.Sprintf(" AND unit_type_id = $%d", argIdx)
		args = append(args, *pf.UnitTypeID)
		argIdx++
	}

	return query, args, argIdx
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, err
	}
	defer tx.Rollback()

	query := `UPDATE products SET name = $1, description = $2, product_type_id = $3, unit_type_id = $4, min_quantity = $5, updated_at = $6
		WHERE public_id = $7 AND user_id = $8`
	res, err := tx.ExecContext(ctx, query, p.Name, p.Description, p.ProductTypeID, p.UnitTypeID, p.MinQuantity, p.UpdatedAt, p.ID, p.UserID)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Product{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}

	if err := recomputeStatus(ctx, tx, p.ID, p.MinQuantity, p.UpdatedAt); err != nil {
		return models.Product{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE public_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) CountByTaxonomy(ctx context.Context, kind models.TaxonomyKind, id uuid.UUID) (int, error) {
	column := "product_type_id"
	if kind == models.KindUnitType {
		column = "unit_type_id"
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE `+column+` = $1`, id).Scan(&count)
	return count, err
}

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

type PostgresBrandRepository struct {
	db *sql.DB
}

func NewPostgresBrandRepository(db *sql.DB) *PostgresBrandRepository {
	return &PostgresBrandRepository{db: db}
}

const brandColumns = `public_id, user_id, name, description, image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrand(row rowScanner) (models.Brand, error) {
	var b models.Brand
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Image, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Brand{}, ErrBrandNotFound
	}
	return b, err
}

func (r *PostgresBrandRepository) Create(ctx context.Context, b models.Brand) (models.Brand, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return insertBrand(ctx, r.db, b)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBrand(ctx context.Context, db execer, b models.Brand) (models.Brand, error) {
	query := `INSERT INTO brands (` + brandColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := db.ExecContext(ctx, query, b.ID, b.UserID, b.Name, b.Description, b.Image, b.CreatedAt, b.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Brand{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Brand{}, fmt.Errorf("failed to insert brand: %w", err)
	}
	return b, nil
}

func (r *PostgresBrandRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Brand, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE public_id = $1 AND user_id = $2`, id, userID)
	return scanBrand(row)
}

func (r *PostgresBrandRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Brand, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE user_id = $1 AND lower(name) = $2`, userID, strings.ToLower(name))
	return scanBrand(row)
}

func (r *PostgresBrandRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Brand, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *PostgresBrandRepository) Update(ctx context.Context, b models.Brand) (models.Brand, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `UPDATE brands SET name = $1, description = $2, image = $3, updated_at = $4 WHERE public_id = $5 AND user_id = $6`
	res, err := r.db.ExecContext(ctx, query, b.Name, b.Description, b.Image, b.UpdatedAt, b.ID, b.UserID)
	if isUniqueViolation(err) {
		return models.Brand{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Brand{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Brand{}, ErrBrandNotFound
	}
	return b, nil
}

func (r *PostgresBrandRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE public_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

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

// PostgresTaxonomyRepository serves the product_types or unit_types table.
// The table name comes from models.TaxonomyKind constants only.
type PostgresTaxonomyRepository struct {
	db   *sql.DB
	kind models.TaxonomyKind
}

func NewPostgresProductTypeRepository(db *sql.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db, kind: models.KindProductType}
}

func NewPostgresUnitTypeRepository(db *sql.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db, kind: models.KindUnitType}
}

const taxonomyColumns = `public_id, user_id, name, description, created_at, updated_at`

func (r *PostgresTaxonomyRepository) Kind() models.TaxonomyKind {
	return r.kind
}

func (r *PostgresTaxonomyRepository) table() string {
	return string(r.kind)
}

func (r *PostgresTaxonomyRepository) scan(row rowScanner) (models.Taxonomy, error) {
	t := models.Taxonomy{Kind: r.kind}
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Taxonomy{}, ErrTaxonomyNotFound
	}
	return t, err
}

func (r *PostgresTaxonomyRepository) Create(ctx context.Context, t models.Taxonomy) (models.Taxonomy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`, r.table(), taxonomyColumns)
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Taxonomy{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("failed to insert into %s: %w", r.table(), err)
	}
	t.Kind = r.kind
	return t, nil
}

func (r *PostgresTaxonomyRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (models.Taxonomy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE public_id = $1 AND user_id = $2`, taxonomyColumns, r.table())
	return r.scan(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresTaxonomyRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (models.Taxonomy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND lower(name) = $2`, taxonomyColumns, r.table())
	return r.scan(r.db.QueryRowContext(ctx, query, userID, strings.ToLower(name)))
}

func (r *PostgresTaxonomyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Taxonomy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY name`, taxonomyColumns, r.table())
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Taxonomy{}
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (r *PostgresTaxonomyRepository) Update(ctx context.Context, t models.Taxonomy) (models.Taxonomy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`UPDATE %s SET name = $1, description = $2, updated_at = $3 WHERE public_id = $4 AND user_id = $5`, r.table())
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Description, t.UpdatedAt, t.ID, t.UserID)
	if isUniqueViolation(err) {
		return models.Taxonomy{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Taxonomy{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Taxonomy{}, ErrTaxonomyNotFound
	}
	t.Kind = r.kind
	return t, nil
}

func (r *PostgresTaxonomyRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE public_id = $1 AND user_id = $2`, r.table())
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrTaxonomyNotFound
	}
	return nil
}

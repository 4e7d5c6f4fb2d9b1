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

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `public_id, name, email, created_at, updated_at`

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, strings.ToLower(email))
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE public_id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (public_id, name, email, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

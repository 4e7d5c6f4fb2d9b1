package repo

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrBrandNotFound          = errors.New("brand not found")
	ErrTaxonomyNotFound       = errors.New("taxonomy entry not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrStorageNotFound        = errors.New("storage not found")
	ErrStorageProductNotFound = errors.New("product is not in storage")
	ErrShoppingListNotFound   = errors.New("shopping list not found")
	ErrListProductNotFound    = errors.New("product is not in shopping list")
	ErrListCompleted          = errors.New("shopping list is already completed")
	ErrDuplicatedValueUnique  = errors.New("duplicated value violates unique constraint")
	ErrQuantityTooLarge       = errors.New("quantity exceeds the maximum storable value")
)

// MaxQuantity is the largest quantity an INTEGER column holds.
const MaxQuantity = math.MaxInt32

const queryTimeout = 3 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

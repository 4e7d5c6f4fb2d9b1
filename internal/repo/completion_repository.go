package repo

import (
	"context"

	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

// CompletionRepository applies every write of a shopping-list completion
// atomically: new brands, purchased lines, restocked storage rows, price logs
// and the completion stamp.
type CompletionRepository interface {
	CompleteShoppingList(ctx context.Context, c models.Completion) error
}

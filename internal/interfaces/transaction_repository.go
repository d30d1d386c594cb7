package interfaces

import (
	"context"
	"errors"

	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
)

var (
	// ErrNotFound is returned when no transaction exists for an external id.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicateID is returned when an insert collides with an already
	// recorded external id. The unique key on external_id is the idempotency
	// backstop, so callers must treat this as a duplicate, not a storage fault.
	ErrDuplicateID = errors.New("transaction already recorded for external id")
)

// TransactionRepository defines the contract for transaction persistence
type TransactionRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error)
	Insert(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	// List returns a page of transactions ordered by row id descending.
	List(ctx context.Context, page, rowsPerPage int) ([]*models.Transaction, error)
}

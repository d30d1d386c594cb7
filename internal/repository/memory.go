package repository

import (
	"context"
	"sync"

	"github.com/LucasExpRocha/ToolsChallenge/internal/interfaces"
	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
)

// MemoryTransactionRepository keeps transactions in process memory. It backs
// the gateway when no DATABASE_URL is configured and is the store used by the
// test suite. Uniqueness of external ids is enforced under the same lock that
// guards the insert, so duplicate inserts surface as ErrDuplicateID exactly
// like the Postgres unique constraint does.
type MemoryTransactionRepository struct {
	mu        sync.RWMutex
	byID      map[string]*models.Transaction
	order     []string
	nextRowID int64
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		byID: make(map[string]*models.Transaction),
	}
}

func (r *MemoryTransactionRepository) FindByExternalID(_ context.Context, externalID string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byID[externalID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return copyTransaction(tx), nil
}

func (r *MemoryTransactionRepository) Insert(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[tx.ExternalID]; ok {
		return interfaces.ErrDuplicateID
	}
	r.nextRowID++
	tx.RowID = r.nextRowID
	r.byID[tx.ExternalID] = copyTransaction(tx)
	r.order = append(r.order, tx.ExternalID)
	return nil
}

func (r *MemoryTransactionRepository) Update(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[tx.ExternalID]
	if !ok {
		return interfaces.ErrNotFound
	}
	updated := copyTransaction(tx)
	updated.RowID = stored.RowID
	r.byID[tx.ExternalID] = updated
	return nil
}

func (r *MemoryTransactionRepository) List(_ context.Context, page, rowsPerPage int) ([]*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first, matching the row-id descending order of the SQL store.
	start := page * rowsPerPage
	if start >= len(r.order) {
		return nil, nil
	}
	end := start + rowsPerPage
	if end > len(r.order) {
		end = len(r.order)
	}

	result := make([]*models.Transaction, 0, end-start)
	for i := start; i < end; i++ {
		externalID := r.order[len(r.order)-1-i]
		result = append(result, copyTransaction(r.byID[externalID]))
	}
	return result, nil
}

func copyTransaction(tx *models.Transaction) *models.Transaction {
	clone := *tx
	if tx.CanceledAt != nil {
		canceledAt := *tx.CanceledAt
		clone.CanceledAt = &canceledAt
	}
	return &clone
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/LucasExpRocha/ToolsChallenge/internal/interfaces"
	"github.com/LucasExpRocha/ToolsChallenge/internal/models"
)

// uniqueViolation is the Postgres error code raised when the external_id
// unique constraint rejects an insert.
const uniqueViolation = "23505"

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			external_id VARCHAR(64) NOT NULL UNIQUE,
			card VARCHAR(32) NOT NULL,
			payment_type VARCHAR(32) NOT NULL,
			installments INTEGER NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			merchant VARCHAR(255) NOT NULL,
			settlement_reference VARCHAR(10) NOT NULL,
			authorization_code VARCHAR(9) NOT NULL,
			status VARCHAR(16) NOT NULL,
			canceled_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *TransactionRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	var (
		tx         models.Transaction
		canceledAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_id, card, payment_type, installments, amount,
		       occurred_at, merchant, settlement_reference, authorization_code,
		       status, canceled_at
		FROM transactions WHERE external_id = $1
	`, externalID).Scan(
		&tx.RowID, &tx.ExternalID, &tx.Card, &tx.PaymentType, &tx.Installments,
		&tx.Amount, &tx.OccurredAt, &tx.Merchant, &tx.SettlementReference,
		&tx.AuthorizationCode, &tx.Status, &canceledAt,
	)
	if err == sql.ErrNoRows {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if canceledAt.Valid {
		tx.CanceledAt = &canceledAt.Time
	}
	return &tx, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (external_id, card, payment_type, installments,
			amount, occurred_at, merchant, settlement_reference,
			authorization_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, tx.ExternalID, tx.Card, tx.PaymentType, tx.Installments, tx.Amount,
		tx.OccurredAt, tx.Merchant, tx.SettlementReference, tx.AuthorizationCode,
		tx.Status,
	).Scan(&tx.RowID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return interfaces.ErrDuplicateID
	}
	return err
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	var canceledAt sql.NullTime
	if tx.CanceledAt != nil {
		canceledAt = sql.NullTime{Time: *tx.CanceledAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET status = $1, canceled_at = $2
		WHERE external_id = $3
	`, tx.Status, canceledAt, tx.ExternalID)
	return err
}

func (r *TransactionRepository) List(ctx context.Context, page, rowsPerPage int) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, external_id, card, payment_type, installments, amount,
		       occurred_at, merchant, settlement_reference, authorization_code,
		       status, canceled_at
		FROM transactions ORDER BY id DESC LIMIT $1 OFFSET $2
	`, rowsPerPage, page*rowsPerPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		var (
			tx         models.Transaction
			canceledAt sql.NullTime
		)
		if err := rows.Scan(
			&tx.RowID, &tx.ExternalID, &tx.Card, &tx.PaymentType, &tx.Installments,
			&tx.Amount, &tx.OccurredAt, &tx.Merchant, &tx.SettlementReference,
			&tx.AuthorizationCode, &tx.Status, &canceledAt,
		); err != nil {
			return nil, err
		}
		if canceledAt.Valid {
			tx.CanceledAt = &canceledAt.Time
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

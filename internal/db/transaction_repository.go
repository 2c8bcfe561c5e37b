package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. The transactions table is append-only: rows are never updated
// or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool: pool,
	}
}

// Create appends a new ledger entry and fills in its generated identifier.
// The caller guarantees the referenced account exists within the same unit
// of work.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, operation_type_id, amount, event_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var row pgx.Row
	if tx := getTx(ctx); tx != nil {
		row = tx.QueryRow(ctx, query,
			transaction.AccountID,
			transaction.OperationTypeID,
			transaction.Amount.String(),
			transaction.EventDate,
		)
	} else {
		row = r.pool.QueryRow(ctx, query,
			transaction.AccountID,
			transaction.OperationTypeID,
			transaction.Amount.String(),
			transaction.EventDate,
		)
	}

	if err := row.Scan(&transaction.ID); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool: pool,
	}
}

// Create persists a new account and fills in its generated identifier and
// creation timestamp. The unique constraint on document_number closes the
// check-then-act race: of two concurrent creations with the same document
// number exactly one succeeds.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (document_number, balance, credit_limit)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	var row pgx.Row
	if tx := getTx(ctx); tx != nil {
		row = tx.QueryRow(ctx, query, account.DocumentNumber, account.Balance.String(), account.CreditLimit.String())
	} else {
		row = r.pool.QueryRow(ctx, query, account.DocumentNumber, account.Balance.String(), account.CreditLimit.String())
	}

	if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNumberExists, account.DocumentNumber)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its unique identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := accountSelect + ` WHERE id = $1`
	return r.queryAccount(ctx, query, id)
}

// Lock acquires a pessimistic lock on the account row for the duration of the
// surrounding transaction and returns a fresh read of the row.
// Must be called within a transaction context.
func (r *AccountRepository) Lock(ctx context.Context, id int64) (*domain.Account, error) {
	query := accountSelect + ` WHERE id = $1 FOR UPDATE`
	return r.queryAccount(ctx, query, id)
}

// Update persists the account's balance. All other fields are immutable
// after creation.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2
		WHERE id = $1
	`

	var tag pgconn.CommandTag
	var err error
	if tx := getTx(ctx); tx != nil {
		tag, err = tx.Exec(ctx, query, account.ID, account.Balance.String())
	} else {
		tag, err = r.pool.Exec(ctx, query, account.ID, account.Balance.String())
	}

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// accountSelect casts the NUMERIC columns to text so they can be parsed into
// decimals without loss of precision.
const accountSelect = `
	SELECT id, document_number, balance::text, credit_limit::text, created_at
	FROM accounts`

func (r *AccountRepository) queryAccount(ctx context.Context, query string, id int64) (*domain.Account, error) {
	var row pgx.Row
	if tx := getTx(ctx); tx != nil {
		row = tx.QueryRow(ctx, query, id)
	} else {
		row = r.pool.QueryRow(ctx, query, id)
	}

	var (
		account     domain.Account
		balance     string
		creditLimit string
	)
	err := row.Scan(
		&account.ID,
		&account.DocumentNumber,
		&balance,
		&creditLimit,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	if account.CreditLimit, err = decimal.NewFromString(creditLimit); err != nil {
		return nil, fmt.Errorf("failed to parse credit limit: %w", err)
	}

	return &account, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

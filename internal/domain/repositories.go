package domain

import "context"

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	// Create persists a new account and assigns its identifier.
	// Returns ErrDocumentNumberExists if an account with the same document
	// number already exists. Uniqueness is enforced by a storage-level
	// constraint, so two concurrent creations cannot both succeed.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by its unique identifier.
	// Returns ErrAccountNotFound if the account doesn't exist.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// Update persists the mutable fields of an existing account. Used
	// exclusively by the posting engine to write back a new balance.
	// Returns ErrAccountNotFound if the account no longer exists.
	Update(ctx context.Context, account *Account) error

	// Lock acquires a row-level lock on the account for the duration of the
	// surrounding transaction and returns a fresh read of the row.
	// Must be called within a transaction context.
	Lock(ctx context.Context, id int64) (*Account, error)
}

// TransactionRepository defines the interface for the append-only ledger.
type TransactionRepository interface {
	// Create appends a new ledger entry and assigns its identifier.
	// The caller guarantees the referenced account exists within the same
	// unit of work.
	Create(ctx context.Context, transaction *Transaction) error
}

// TransactionManager defines the interface for managing database transactions.
// This abstraction allows the service layer to work with transactions
// without being coupled to a specific database implementation.
type TransactionManager interface {
	// WithTransaction executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes domain events to external systems (e.g. RabbitMQ).
type EventPublisher interface {
	PublishTransactionPosted(ctx context.Context, transaction *Transaction) error
}

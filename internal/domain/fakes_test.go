package domain_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// fakeStore is an in-memory implementation of the account repository, the
// transaction repository and the transaction manager. WithTransaction holds a
// lock for the whole unit of work and restores a snapshot on error, so it
// gives the same serialization and rollback semantics the real database
// provides.
type fakeStore struct {
	txMu sync.Mutex // serializes units of work
	mu   sync.Mutex // guards the maps below

	accounts          map[int64]*domain.Account
	transactions      []*domain.Transaction
	nextAccountID     int64
	nextTransactionID int64

	// failConflicts makes the next N units of work fail with a transient
	// conflict before running, to exercise the posting engine's retry loop.
	failConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[int64]*domain.Account),
	}
}

func (f *fakeStore) Create(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.accounts {
		if existing.DocumentNumber == account.DocumentNumber {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNumberExists, account.DocumentNumber)
		}
	}

	f.nextAccountID++
	account.ID = f.nextAccountID
	account.CreatedAt = time.Now()

	clone := *account
	f.accounts[account.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (f *fakeStore) Lock(ctx context.Context, id int64) (*domain.Account, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeStore) Update(ctx context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	clone := *account
	f.accounts[account.ID] = &clone
	return nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextTransactionID++
	transaction.ID = f.nextTransactionID

	clone := *transaction
	f.transactions = append(f.transactions, &clone)
	return nil
}

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	if f.failConflicts > 0 {
		f.failConflicts--
		f.mu.Unlock()
		return fmt.Errorf("%w: deadlock detected", domain.ErrTransientConflict)
	}
	accountsSnap := make(map[int64]*domain.Account, len(f.accounts))
	for id, account := range f.accounts {
		clone := *account
		accountsSnap[id] = &clone
	}
	transactionsSnap := append([]*domain.Transaction(nil), f.transactions...)
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.accounts = accountsSnap
		f.transactions = transactionsSnap
		f.mu.Unlock()
		return err
	}
	return nil
}

// ledger adapts fakeStore to domain.TransactionRepository, whose Create
// method name collides with the account repository's.
type ledger struct {
	*fakeStore
}

func (l ledger) Create(ctx context.Context, transaction *domain.Transaction) error {
	return l.CreateTransaction(ctx, transaction)
}

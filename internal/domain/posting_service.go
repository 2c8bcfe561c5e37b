package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxPostAttempts bounds retries of a posting unit of work that failed with a
// transient storage conflict.
const maxPostAttempts = 3

// PostingService is the posting engine: it resolves the operation type,
// computes the signed amount, enforces the available-limit invariant and
// atomically updates the account balance while appending the ledger entry.
// It is the sole writer of Account.Balance.
type PostingService struct {
	accounts     AccountRepository
	transactions TransactionRepository
	txManager    TransactionManager
	// Optional event publisher to emit domain events (e.g. transaction posted)
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewPostingService creates a new instance of PostingService.
// Pass nil for eventPublisher if no events should be emitted.
func NewPostingService(
	accounts AccountRepository,
	transactions TransactionRepository,
	txManager TransactionManager,
	eventPublisher EventPublisher,
	logger *zap.Logger,
) *PostingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostingService{
		accounts:       accounts,
		transactions:   transactions,
		txManager:      txManager,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// PostTransaction posts a transaction against an account.
//
// The transaction is executed atomically within a database transaction:
//  1. Resolve the operation type and derive the signed amount
//  2. Lock the account row to prevent concurrent balance updates
//  3. Compute the new balance and the resulting available limit
//  4. Reject with ErrInsufficientLimit if the available limit would go negative
//  5. Write back the new balance and append the ledger entry
//  6. Commit
//
// On any failure nothing is committed: the balance and the ledger are left
// exactly as they were. Transient storage conflicts are retried a bounded
// number of times before being surfaced.
func (s *PostingService) PostTransaction(
	ctx context.Context,
	accountID int64,
	operationTypeID int,
	amount decimal.Decimal,
) (*Transaction, error) {
	operationType, err := OperationTypeFromID(operationTypeID)
	if err != nil {
		return nil, err
	}

	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	signedAmount := operationType.SignAmount(amount)

	var transaction *Transaction
	for attempt := 1; ; attempt++ {
		transaction, err = s.postOnce(ctx, accountID, operationTypeID, signedAmount)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrTransientConflict) || attempt >= maxPostAttempts {
			return nil, err
		}
		s.logger.Warn("retrying transaction after storage conflict",
			zap.Int64("account_id", accountID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	// After a successful commit, publish the posted event (best-effort).
	// Publishing happens asynchronously so that transient broker failures
	// don't make an already-committed transaction appear to fail.
	if s.eventPublisher != nil {
		go func(t *Transaction) {
			if err := s.eventPublisher.PublishTransactionPosted(context.Background(), t); err != nil {
				s.logger.Warn("failed to publish transaction posted event",
					zap.Int64("transaction_id", t.ID),
					zap.Error(err),
				)
			}
		}(transaction)
	}

	return transaction, nil
}

// postOnce runs a single attempt of the posting unit of work.
func (s *PostingService) postOnce(
	ctx context.Context,
	accountID int64,
	operationTypeID int,
	signedAmount decimal.Decimal,
) (*Transaction, error) {
	var transaction *Transaction
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accounts.Lock(txCtx, accountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Add(signedAmount)
		available := newBalance.Add(account.CreditLimit)

		// Exactly at the limit boundary (available == 0) is still valid.
		if available.IsNegative() {
			return ErrInsufficientLimit
		}

		account.Balance = newBalance
		if err := s.accounts.Update(txCtx, account); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}

		transaction = &Transaction{
			AccountID:       accountID,
			OperationTypeID: operationTypeID,
			Amount:          signedAmount,
			EventDate:       time.Now(),
		}
		if err := s.transactions.Create(txCtx, transaction); err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

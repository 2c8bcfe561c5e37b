package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountService handles the business logic for customer accounts.
type AccountService struct {
	accounts           AccountRepository
	defaultCreditLimit decimal.Decimal
}

// NewAccountService creates a new AccountService. New accounts start with a
// zero balance and the given default credit limit; the limit is not
// user-settable at creation time.
func NewAccountService(accounts AccountRepository, defaultCreditLimit decimal.Decimal) *AccountService {
	return &AccountService{
		accounts:           accounts,
		defaultCreditLimit: defaultCreditLimit,
	}
}

// CreateAccount creates a new account for the given document number.
// Returns ErrInvalidDocumentNumber if the document number is malformed and
// ErrDocumentNumberExists if an account with that document number already
// exists.
func (s *AccountService) CreateAccount(ctx context.Context, documentNumber string) (*Account, error) {
	if err := ValidateDocumentNumber(documentNumber); err != nil {
		return nil, err
	}

	account := &Account{
		DocumentNumber: documentNumber,
		Balance:        decimal.Zero,
		CreditLimit:    s.defaultCreditLimit,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by its identifier.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

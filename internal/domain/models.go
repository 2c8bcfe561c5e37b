package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer account in the system.
// This is the core domain entity that holds the document number, the current
// balance and the credit limit the balance may be drawn against.
type Account struct {
	ID             int64           // Unique identifier of the account
	DocumentNumber string          // Customer's 11-digit document number, unique per account
	Balance        decimal.Decimal // Current account balance (signed)
	CreditLimit    decimal.Decimal // Credit limit the balance may go negative against
	CreatedAt      time.Time       // Timestamp when the account was created
}

// Transaction represents a single posted ledger entry.
// The amount is already signed: negative for debit operation types,
// positive for payments. Entries are append-only and never mutated.
type Transaction struct {
	ID              int64           // Unique identifier of the transaction
	AccountID       int64           // Account the transaction was posted against
	OperationTypeID int             // Operation type code (1-4)
	Amount          decimal.Decimal // Signed transaction amount
	EventDate       time.Time       // Timestamp when the transaction was posted
}

// AvailableLimit returns balance + credit limit. The posting engine keeps this
// value non-negative for every committed transaction.
func (a *Account) AvailableLimit() decimal.Decimal {
	return a.Balance.Add(a.CreditLimit)
}

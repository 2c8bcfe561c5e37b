package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OperationType is the closed set of transaction categories. The code is
// stored as-is on each transaction row; there is no operation_types table.
type OperationType int

const (
	OperationTypePurchase            OperationType = 1
	OperationTypeInstallmentPurchase OperationType = 2
	OperationTypeWithdrawal          OperationType = 3
	OperationTypePayment             OperationType = 4
)

// OperationTypeFromID resolves an operation type code.
// Any code outside 1-4 fails with ErrInvalidOperationType.
func OperationTypeFromID(id int) (OperationType, error) {
	switch OperationType(id) {
	case OperationTypePurchase, OperationTypeInstallmentPurchase, OperationTypeWithdrawal, OperationTypePayment:
		return OperationType(id), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidOperationType, id)
	}
}

// IsDebit reports whether the operation type is recorded with a negative amount.
// Everything except PAYMENT is a debit.
func (t OperationType) IsDebit() bool {
	return t != OperationTypePayment
}

// SignAmount applies the operation type's sign to a positive input amount.
func (t OperationType) SignAmount(amount decimal.Decimal) decimal.Decimal {
	if t.IsDebit() {
		return amount.Neg()
	}
	return amount
}

func (t OperationType) String() string {
	switch t {
	case OperationTypePurchase:
		return "PURCHASE"
	case OperationTypeInstallmentPurchase:
		return "INSTALLMENT_PURCHASE"
	case OperationTypeWithdrawal:
		return "WITHDRAWAL"
	case OperationTypePayment:
		return "PAYMENT"
	default:
		return fmt.Sprintf("OperationType(%d)", int(t))
	}
}

package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Regex pattern for validating 11-digit document numbers
var documentNumberPattern = regexp.MustCompile(`^\d{11}$`)

// ValidateDocumentNumber validates that a document number is an 11-digit
// numeric string.
func ValidateDocumentNumber(documentNumber string) error {
	if !documentNumberPattern.MatchString(documentNumber) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentNumber, documentNumber)
	}
	return nil
}

// ValidateAmount validates that a transaction amount is positive, non-zero
// and has at most 2 fractional digits. The caller always supplies a positive
// amount; the sign is derived from the operation type, never from the caller.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}

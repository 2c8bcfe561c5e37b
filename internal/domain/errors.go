package domain

import "errors"

var (
	// ErrAccountNotFound is returned when no account exists for the given id
	ErrAccountNotFound = errors.New("account not found")

	// ErrDocumentNumberExists is returned when an account with the same
	// document number already exists
	ErrDocumentNumberExists = errors.New("account with this document number already exists")

	// ErrInvalidDocumentNumber is returned when the document number is not
	// an 11-digit numeric string
	ErrInvalidDocumentNumber = errors.New("document number must be 11 digits")

	// ErrInvalidOperationType is returned when the operation type code is
	// outside the 1-4 range
	ErrInvalidOperationType = errors.New("invalid operation type")

	// ErrInvalidAmount is returned when the transaction amount is not a
	// positive value with at most 2 fractional digits
	ErrInvalidAmount = errors.New("amount must be a positive value with at most 2 fractional digits")

	// ErrInsufficientLimit is returned when posting the transaction would
	// draw the account below its available limit
	ErrInsufficientLimit = errors.New("insufficient available limit")

	// ErrTransientConflict marks a storage-level conflict (deadlock or
	// serialization failure) that is safe to retry. The posting engine
	// retries a bounded number of times before surfacing it.
	ErrTransientConflict = errors.New("transient storage conflict")
)

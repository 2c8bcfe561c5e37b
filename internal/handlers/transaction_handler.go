package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

func init() {
	// Amounts are emitted as JSON numbers, matching the documented API shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// PostingService is the part of the domain the transaction endpoint depends on.
type PostingService interface {
	PostTransaction(ctx context.Context, accountID int64, operationTypeID int, amount decimal.Decimal) (*domain.Transaction, error)
}

// CreateTransactionRequest is the request body for posting a transaction.
// The amount is always positive; the sign is derived from the operation type.
type CreateTransactionRequest struct {
	AccountID       int64           `json:"account_id"`
	OperationTypeID int             `json:"operation_type_id"`
	Amount          decimal.Decimal `json:"amount"`
}

// TransactionResponse is the response body for a posted transaction.
// The amount carries the sign applied by the posting engine.
type TransactionResponse struct {
	TransactionID   int64           `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	OperationTypeID int             `json:"operation_type_id"`
	Amount          decimal.Decimal `json:"amount"`
}

// TransactionHandler serves the /transactions endpoint.
type TransactionHandler struct {
	posting PostingService
	logger  *zap.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(posting PostingService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		posting: posting,
		logger:  logger,
	}
}

// CreateTransaction handles POST /transactions.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.AccountID <= 0 {
		writeError(w, http.StatusBadRequest, "account_id must be a positive integer")
		return
	}

	transaction, err := h.posting.PostTransaction(r.Context(), req.AccountID, req.OperationTypeID, req.Amount)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, TransactionResponse{
		TransactionID:   transaction.ID,
		AccountID:       transaction.AccountID,
		OperationTypeID: transaction.OperationTypeID,
		Amount:          transaction.Amount,
	})
}

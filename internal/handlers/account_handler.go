package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// AccountService is the part of the domain the account endpoints depend on.
type AccountService interface {
	CreateAccount(ctx context.Context, documentNumber string) (*domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
}

// CreateAccountRequest is the request body for creating an account.
type CreateAccountRequest struct {
	DocumentNumber string `json:"document_number"`
}

// AccountResponse is the response body for account details.
type AccountResponse struct {
	AccountID      int64  `json:"account_id"`
	DocumentNumber string `json:"document_number"`
}

// AccountHandler serves the /accounts endpoints.
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// CreateAccount handles POST /accounts.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), req.DocumentNumber)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/accounts/%d", account.ID))
	writeJSON(w, http.StatusCreated, AccountResponse{
		AccountID:      account.ID,
		DocumentNumber: account.DocumentNumber,
	})
}

// GetAccount handles GET /accounts/{accountId}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "account id must be an integer")
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountResponse{
		AccountID:      account.ID,
		DocumentNumber: account.DocumentNumber,
	})
}

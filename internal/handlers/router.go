package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP router for the service.
func NewRouter(accountHandler *AccountHandler, transactionHandler *TransactionHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/accounts", accountHandler.CreateAccount)
	r.Get("/accounts/{accountId}", accountHandler.GetAccount)
	r.Post("/transactions", transactionHandler.CreateTransaction)

	return r
}

package db_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ManishaKanyal21/customer-banking-app/internal/db"
	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
)

// TestPostingIntegration is a full integration test against a real PostgreSQL
// instance. It verifies the posting engine's atomicity and the serialization
// of concurrent postings through row-level locking.
func TestPostingIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, dbURL := startPostgresContainer(t, ctx)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}()

	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	accountRepo := db.NewAccountRepository(pool.Pool)
	transactionRepo := db.NewTransactionRepository(pool.Pool)
	txManager := db.NewTransactionManager(pool.Pool)

	accountService := domain.NewAccountService(accountRepo, decimal.RequireFromString("1000.00"))
	postingService := domain.NewPostingService(accountRepo, transactionRepo, txManager, nil, nil)

	t.Run("create and fetch account", func(t *testing.T) {
		account, err := accountService.CreateAccount(ctx, "11111111111")
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if account.ID == 0 {
			t.Error("expected a generated account id")
		}

		fetched, err := accountService.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if fetched.DocumentNumber != "11111111111" {
			t.Errorf("expected document number 11111111111, got %s", fetched.DocumentNumber)
		}
		if !fetched.Balance.IsZero() {
			t.Errorf("expected zero balance, got %s", fetched.Balance)
		}
		if fetched.CreditLimit.String() != "1000.00" {
			t.Errorf("expected credit limit 1000.00, got %s", fetched.CreditLimit)
		}
	})

	t.Run("duplicate document number", func(t *testing.T) {
		if _, err := accountService.CreateAccount(ctx, "22222222222"); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		_, err := accountService.CreateAccount(ctx, "22222222222")
		if !errors.Is(err, domain.ErrDocumentNumberExists) {
			t.Errorf("expected ErrDocumentNumberExists, got %v", err)
		}
	})

	t.Run("concurrent creations with same document number", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := accountService.CreateAccount(ctx, "33333333333")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, duplicates int
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrDocumentNumberExists):
				duplicates++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 || duplicates != 1 {
			t.Errorf("expected exactly one success and one duplicate, got %d/%d", succeeded, duplicates)
		}
	})

	t.Run("posting scenarios", func(t *testing.T) {
		account, err := accountService.CreateAccount(ctx, "44444444444")
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		// Payment of 123.45 brings the balance to 123.45.
		transaction, err := postingService.PostTransaction(ctx, account.ID, 4, decimal.RequireFromString("123.45"))
		if err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}
		if transaction.Amount.String() != "123.45" {
			t.Errorf("expected transaction amount 123.45, got %s", transaction.Amount)
		}

		current, err := accountService.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if current.Balance.String() != "123.45" {
			t.Errorf("expected balance 123.45, got %s", current.Balance)
		}

		// A purchase of 1200.00 would leave available = -76.55 and must be
		// rejected without touching the balance or the ledger.
		_, err = postingService.PostTransaction(ctx, account.ID, 1, decimal.RequireFromString("1200.00"))
		if !errors.Is(err, domain.ErrInsufficientLimit) {
			t.Fatalf("expected ErrInsufficientLimit, got %v", err)
		}

		current, err = accountService.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if current.Balance.String() != "123.45" {
			t.Errorf("balance changed on rejected posting: %s", current.Balance)
		}
		if got := countTransactions(t, ctx, pool, account.ID); got != 1 {
			t.Errorf("expected 1 ledger entry after rejected posting, got %d", got)
		}
	})

	t.Run("withdrawal exactly at the limit", func(t *testing.T) {
		account, err := accountService.CreateAccount(ctx, "55555555555")
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		transaction, err := postingService.PostTransaction(ctx, account.ID, 3, decimal.RequireFromString("1000.00"))
		if err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}
		if transaction.Amount.String() != "-1000.00" {
			t.Errorf("expected transaction amount -1000.00, got %s", transaction.Amount)
		}

		current, err := accountService.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if current.Balance.String() != "-1000.00" {
			t.Errorf("expected balance -1000.00, got %s", current.Balance)
		}
	})

	t.Run("concurrent postings against the same account", func(t *testing.T) {
		account, err := accountService.CreateAccount(ctx, "66666666666")
		if err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		// Each withdrawal of 600.00 fits the 1000.00 limit on its own, but
		// together they would exceed it. Row locking must serialize them so
		// that exactly one succeeds.
		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := postingService.PostTransaction(ctx, account.ID, 3, decimal.RequireFromString("600.00"))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var succeeded, rejected int
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientLimit):
				rejected++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 || rejected != 1 {
			t.Errorf("expected exactly one success and one rejection, got %d/%d", succeeded, rejected)
		}

		final, err := accountService.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if final.Balance.String() != "-600.00" {
			t.Errorf("expected balance -600.00, got %s", final.Balance)
		}
		if got := countTransactions(t, ctx, pool, account.ID); got != 1 {
			t.Errorf("expected 1 ledger entry, got %d", got)
		}
	})
}

// startPostgresContainer starts a PostgreSQL testcontainer and returns the
// connection URL.
func startPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	dbURL := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	return container, dbURL
}

// countTransactions returns the number of ledger entries for an account.
func countTransactions(t *testing.T, ctx context.Context, pool *db.Pool, accountID int64) int {
	t.Helper()
	var count int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}

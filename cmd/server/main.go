package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ManishaKanyal21/customer-banking-app/internal/config"
	"github.com/ManishaKanyal21/customer-banking-app/internal/db"
	"github.com/ManishaKanyal21/customer-banking-app/internal/domain"
	"github.com/ManishaKanyal21/customer-banking-app/internal/events"
	"github.com/ManishaKanyal21/customer-banking-app/internal/handlers"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	defaultCreditLimit, err := decimal.NewFromString(cfg.DefaultCreditLimit)
	if err != nil {
		logger.Fatal("invalid DEFAULT_CREDIT_LIMIT", zap.String("value", cfg.DefaultCreditLimit), zap.Error(err))
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connection pool initialized")

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	accountRepo := db.NewAccountRepository(pool.Pool)
	transactionRepo := db.NewTransactionRepository(pool.Pool)
	txManager := db.NewTransactionManager(pool.Pool)

	var eventPublisher domain.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			logger.Fatal("failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		eventPublisher = publisher
		logger.Info("event publisher initialized",
			zap.String("exchange", cfg.RabbitMQ.Exchange),
			zap.String("routing_key", cfg.RabbitMQ.RoutingKey),
		)
	} else {
		logger.Info("event publishing disabled")
	}

	accountService := domain.NewAccountService(accountRepo, defaultCreditLimit)
	postingService := domain.NewPostingService(accountRepo, transactionRepo, txManager, eventPublisher, logger)
	logger.Info("domain services initialized", zap.String("default_credit_limit", defaultCreditLimit.String()))

	accountHandler := handlers.NewAccountHandler(accountService, logger)
	transactionHandler := handlers.NewTransactionHandler(postingService, logger)
	router := handlers.NewRouter(accountHandler, transactionHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}

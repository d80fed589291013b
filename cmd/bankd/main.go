package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bank-demo-ledger/internal/api"
	"github.com/bank-demo-ledger/internal/config"
	"github.com/bank-demo-ledger/internal/data/memory"
	"github.com/bank-demo-ledger/internal/data/mongo"
	"github.com/bank-demo-ledger/internal/data/postgres"
	"github.com/bank-demo-ledger/internal/events"
	"github.com/bank-demo-ledger/internal/ledger"
	"github.com/bank-demo-ledger/internal/logger"
	"github.com/bank-demo-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("bankd")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	var (
		service  *ledger.Service
		shutdown []func(ctx context.Context)
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Info("Using in-memory stores")
		service = ledger.NewService(log,
			memory.NewAccountRepository(),
			memory.NewTransactionRepository(),
			events.NewLogNotifier(log),
		)

	case config.StoreDriverDatabase:
		postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}

		mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			postgresDB.Close()
			os.Exit(1)
		}

		kafkaProducer, err := events.NewAppliedEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka producer", "error", err)
			postgresDB.Close()
			os.Exit(1)
		}

		accountRepo := postgres.NewAccountRepository(log, postgresDB)
		transactionRepo := mongo.NewTransactionRepository(log, mongoDB.Database())
		outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

		service = ledger.NewService(log, accountRepo, transactionRepo,
			events.NewOutboxNotifier(log, outboxRepo))

		poller, err := events.NewPoller(&cfg.Outbox, cfg.WorkerPool.Size, outboxRepo, kafkaProducer, log)
		if err != nil {
			log.Error("Failed to initialize outbox poller", "error", err)
			postgresDB.Close()
			os.Exit(1)
		}
		go poller.Start(appCtx)

		shutdown = append(shutdown,
			func(ctx context.Context) {
				if err := kafkaProducer.Close(); err != nil {
					log.Error("Error closing Kafka producer", "error", err)
				}
			},
			func(ctx context.Context) { postgresDB.Close() },
			func(ctx context.Context) {
				if err := mongoDB.Close(ctx); err != nil {
					log.Error("Error closing MongoDB connection", "error", err)
				}
			},
		)
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, service)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context; this also stops the outbox poller
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	for _, stop := range shutdown {
		stop(shutdownCtx)
	}

	if serverErr != nil {
		log.Error("Server shutdown completed with errors", "error", serverErr)
		return
	}
	log.Info("Server shutdown completed successfully")
}

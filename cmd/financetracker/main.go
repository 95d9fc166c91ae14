package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/backend"
	"financetracker/internal/cli"
	apphttp "financetracker/internal/http"
	"financetracker/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting financetracker API server")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// AMQP is optional. Without it mutations still persist, they just
	// never reach the backup worker.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change publishing", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, ledger changes will not be published")
	}

	ledgerService := services.NewLedgerService(result.Backend, publisher)
	defer ledgerService.Close()

	// Recurring templates and budget limits live in SQLite only. On the
	// drive and memory backends those routes answer 404.
	var (
		recurring apphttp.RecurringStore
		budgets   apphttp.BudgetStore
		processor *services.RecurringProcessor
	)
	if repo, ok := result.Backend.(interface {
		apphttp.RecurringStore
		apphttp.BudgetStore
		services.RecurringStore
	}); ok {
		recurring = repo
		budgets = repo
		processor = services.NewRecurringProcessor(repo, ledgerService)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledgerService, recurring, budgets, processor)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	})

	logger.Info("API server listening", "addr", srv.Addr, "backend", backendConfig.Type)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("API server shutdown complete")
}

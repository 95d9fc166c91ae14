package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"financetracker/internal/amqp"
	"financetracker/internal/backend"
	"financetracker/internal/cli"
	"financetracker/internal/services"
	"financetracker/internal/snapshot/drive"
)

// backup-worker consumes ledger change messages and mirrors the primary
// store into a Google Drive snapshot. It also runs periodic full backups
// so a lost message never leaves the mirror stale forever.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting backup-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to create source backend", "error", err, "backend", backendConfig.Type)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	driveClient, err := drive.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Drive client", "error", err)
		os.Exit(1)
	}

	processor := services.NewBackupProcessor(result.Backend, driveClient, services.BackupProcessorConfig{
		Interval: cfg.BackupInterval,
		Debounce: cfg.BackupDebounce,
	})
	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start backup processor", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeLedgerChanges(gctx, processor.HandleChange)
	})

	logger.Info("Backup worker running",
		"source", backendConfig.Type,
		"backup_interval", cfg.BackupInterval,
		"backup_debounce", cfg.BackupDebounce)

	_, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)

	// Exit on shutdown signal or when consumption dies.
	select {
	case <-done:
	case <-gctx.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := processor.Stop(stopCtx); err != nil {
		logger.Error("Backup processor stop failed", "error", err)
	}
	stopCancel()

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption stopped", "error", err)
	}
	logger.Info("Backup-worker shutdown complete")
}

package main

import (
	"context"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/cli"
	"financetracker/internal/services"
)

// recurring-worker materializes due recurring templates into transactions
// on a fixed interval. Templates live in SQLite, so this worker always
// runs against the SQLite store regardless of the configured API backend.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// AMQP is optional. With it, every applied batch reaches the backup
	// worker; without it the transactions still land in SQLite.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change publishing", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	} else {
		logger.Info("AMQP disabled, applied batches will not be published")
	}

	ledgerService := services.NewLedgerService(sqliteRepo, publisher)
	defer ledgerService.Close()

	processor := services.NewRecurringProcessor(sqliteRepo, ledgerService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	// One pass on startup, then on every tick.
	if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDue(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"transactions_created", count,
						"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
				}
			}
		}
	}()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)
	<-done
	logger.Info("Recurring-worker shutdown complete")
}

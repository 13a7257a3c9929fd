package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"budgetbot/internal/amqp"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	applog "budgetbot/internal/log"
	gsheet "budgetbot/internal/sheets/google"
	"budgetbot/internal/worker"
)

var _ worker.EventAppender = (*gsheet.Client)(nil)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg)
	logger.Info("Starting budget-worker")

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, stop := cli.SignalContext(logger.Logger)
	defer stop()

	sheetsLogger := logger.WithComponent(applog.ComponentSheets)
	sheetsClient, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		PlanSheet:          cfg.GooglePlanSheet,
		RegisterSheet:      cfg.GoogleRegisterSheet,
		LogSheet:           cfg.GoogleLogSheet,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, sheetsLogger)
	if err != nil {
		return err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	w := worker.NewEventLogWorker(sheetsClient,
		worker.WithRetry(uint(cfg.WorkerRetryAttempts), cfg.WorkerRetryDelay),
		worker.WithLogger(logger.WithComponent(applog.ComponentWorker)))
	if err := w.Prepare(ctx); err != nil {
		return err
	}

	amqpClient, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer amqpClient.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeLedgerEvents(gctx, w.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

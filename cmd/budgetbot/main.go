package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"budgetbot/internal/backend"
	"budgetbot/internal/bot"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/core"
	applog "budgetbot/internal/log"
	"budgetbot/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateBot)
	logger := cli.SetupLogger(cfg)
	logger.Info("Starting budgetbot", applog.FieldBackend, cfg.DataBackend)

	if err := run(cfg, logger); err != nil {
		logger.Error("Budget bot stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Budget bot shutdown complete")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, stop := cli.SignalContext(logger.Logger)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	svc := services.NewBudgetService(res.Store, core.SystemClock{Location: loc}, res.Publisher, cfg.DefaultAccount)

	api, err := bot.NewAPI(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		return err
	}
	logger.Info("Authorized on Telegram", "username", api.Self.UserName)

	botLogger := logger.WithComponent(applog.ComponentBot)
	runner := bot.NewRunner(api, bot.NewDispatcher(svc, botLogger), cfg.TelegramPollTimeout, botLogger)
	if err := runner.RegisterCommands(ctx); err != nil {
		// The menu is cosmetic; commands still work without it.
		logger.Warn("Failed to register bot commands", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	return g.Wait()
}

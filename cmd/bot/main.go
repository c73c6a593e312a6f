package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/matchday-bot/internal/app"
	"github.com/riskibarqy/matchday-bot/internal/config"
	"github.com/riskibarqy/matchday-bot/internal/observability"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(logging.LevelError).Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)

	code := run(cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger) int {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("app stopped with error", "error", err)
		return 1
	}

	logger.Info("app stopped")
	return 0
}

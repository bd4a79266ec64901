package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chargebook/internal/app"
	"chargebook/internal/config"
	"chargebook/libs/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := logging.NewLogger("dashboard-gateway")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("building application", zap.Error(err))
	}
	defer application.Close()

	logger.Info("dashboard gateway starting", zap.String("address", cfg.HTTPAddress()))
	if err := application.Run(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"grant_finder/pkg/api"
	"grant_finder/pkg/core/config"
	"grant_finder/pkg/core/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to grantfinder.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	services, err := api.NewServices(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("API server starting",
		zap.String("addr", cfg.Addr),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.String("default_language", cfg.DefaultLanguage))

	if err := services.ListenAndServe(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

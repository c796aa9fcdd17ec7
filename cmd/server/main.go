package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnrirwin/newsdesk/internal/app"
	"github.com/johnrirwin/newsdesk/internal/config"
	"github.com/johnrirwin/newsdesk/internal/logging"
)

func main() {
	cfg := config.Load()

	application, err := app.New(cfg)
	if err != nil {
		logging.New(logging.LevelError).Error("Failed to initialize", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
	logger := application.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
	}()

	logger.Info("Dashboard backend", logging.WithField("api", cfg.API.APIBase()))

	if err := application.Run(ctx); err != nil {
		logger.Error("HTTP server error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
}

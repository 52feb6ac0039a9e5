package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hojyokin-go/internal/app"
	"hojyokin-go/internal/config"
	"hojyokin-go/internal/logger"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Error("config error", "err", err)
		os.Exit(1)
	}

	builder := app.NewBuilder(cfg, app.WithLogger(log))
	application, err := builder.Build(context.Background())
	if err != nil {
		log.Error("app build error", "err", err)
		os.Exit(1)
	}

	if err := application.Start(); err != nil {
		log.Error("app start error", "err", err)
		os.Exit(1)
	}

	waitForShutdown(application)
}

func waitForShutdown(application *app.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	application.Log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		application.Log.Error("server shutdown error", "err", err)
	}
}

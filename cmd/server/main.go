package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahos-screening-server/internal/api"
	"github.com/sahos-screening-server/internal/app"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	cfg := application.Config.GetConfig()
	application.Logger.Infof("Starting SAHOS screening server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	server := api.NewServer(application.Config, application.Logger, application.Intake, application.Printer)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		application.Logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		application.Close()
		log.Fatalf("Server failed: %v", err)
	}

	application.Logger.Info("Server stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahos-screening-server/internal/app"
	"github.com/sahos-screening-server/internal/cli"
	"github.com/sahos-screening-server/internal/mcp"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	// Operator subcommands run once against the stored session
	if len(os.Args) > 1 && cli.IsCommand(os.Args[1]) {
		command := cli.NewCLI(application.Config, application.Intake, application.Store, application.Printer, os.Stdin, os.Stdout)
		if err := command.Run(ctx, os.Args[1:]); err != nil {
			application.Close()
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		return
	}

	cfg := application.Config.GetConfig()
	server := mcp.NewServer(cfg.MCP, application.Logger, application.Intake, application.Printer)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		application.Logger.Info("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		application.Close()
		log.Fatalf("MCP server failed: %v", err)
	}

	application.Logger.Info("SAHOS screening MCP server stopped")
}

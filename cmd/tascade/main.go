package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tascade/adapter/cli"
	"github.com/felixgeelhaar/tascade/adapter/cli/history"
	"github.com/felixgeelhaar/tascade/adapter/cli/preference"
	"github.com/felixgeelhaar/tascade/adapter/cli/workload"
	"github.com/felixgeelhaar/tascade/internal/app"
	"github.com/felixgeelhaar/tascade/pkg/config"
	"github.com/felixgeelhaar/tascade/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Create CLI app with the recommendation service
	cliApp := cli.NewApp(container.Service)
	cliApp.SetCurrentUserID(cfg.UserID)
	cli.SetApp(cliApp)

	// Register command groups
	cli.AddCommand(preference.Cmd)
	cli.AddCommand(workload.Cmd)
	cli.AddCommand(history.Cmd)

	// Execute CLI
	cli.Execute()
}

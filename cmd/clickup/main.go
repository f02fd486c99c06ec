// Package main is the entry point for the clickup CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clickup/internal/backend/clickup"
	"clickup/internal/cli"
	"clickup/internal/commands"
	"clickup/internal/config"
	"clickup/internal/service"
)

func main() {
	config.LoadDotenv()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return clickup.New(cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

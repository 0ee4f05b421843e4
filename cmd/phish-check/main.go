package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/phish-dashboard/internal/adapters/cli"
	"github.com/mikey/phish-dashboard/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = container.Invoke(func(logger *zap.Logger, runner *cli.Runner) error {
		defer logger.Sync()
		return runner.Run(ctx, flags.Request())
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "phish-check: %v\n", err)
		if errors.Is(err, cli.ErrNoOperation) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

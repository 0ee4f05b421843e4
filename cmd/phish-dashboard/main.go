package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/di"
	"github.com/mikey/phish-dashboard/internal/ports"
	"github.com/mikey/phish-dashboard/internal/session"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	listeners []ports.Listener,
	sessions *session.Store,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	started := make([]ports.Listener, 0, len(listeners))
	for _, l := range listeners {
		if err := l.Start(); err != nil {
			logger.Error("Failed to start listener", zap.Error(err))
			stopAll(logger, started)
			return err
		}
		started = append(started, l)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	stopAll(logger, started)
	sessions.Stop()

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}

func stopAll(logger *zap.Logger, listeners []ports.Listener) {
	for i := len(listeners) - 1; i >= 0; i-- {
		if err := listeners[i].Stop(); err != nil {
			logger.Error("Failed to stop listener", zap.Error(err))
		}
	}
}

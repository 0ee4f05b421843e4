package di

import (
	"go.uber.org/dig"

	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/factory"
	"github.com/mikey/phish-dashboard/internal/logging"
	"github.com/mikey/phish-dashboard/internal/ports"
	"github.com/mikey/phish-dashboard/internal/session"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideDomain(container); err != nil {
		return nil, err
	}

	// Register view factory and sessions
	if err := container.Provide(factory.NewViewFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ViewFactory) (*session.Store, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return nil, err
	}

	// Register listeners
	if err := container.Provide(factory.NewListenerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ListenerFactory) ([]ports.Listener, error) {
		return f.CreateListeners()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideDomain registers the detection client, the dashboard service and
// the display collaborators; both binaries share it
func provideDomain(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewDetectionFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewDisplayFactory); err != nil {
		return err
	}

	// Register detection client
	if err := container.Provide(func(f *factory.DetectionFactory) (core.DetectionClient, error) {
		return f.CreateDetectionClient()
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register dashboard service
	if err := container.Provide(func(
		f *factory.DetectionFactory,
		client core.DetectionClient,
		cacheRepo core.CacheRepository,
	) (*core.DashboardService, error) {
		return f.CreateDashboardService(client, cacheRepo)
	}); err != nil {
		return err
	}

	// Register formatter and feature vocabulary
	if err := container.Provide(func(f *factory.DisplayFactory) *display.Formatter {
		return f.CreateFormatter()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.DisplayFactory) (evidence.Vocabulary, error) {
		return f.LoadVocabulary()
	}); err != nil {
		return err
	}

	return nil
}

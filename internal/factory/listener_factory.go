package factory

import (
	"github.com/mikey/phish-dashboard/internal/adapters/intake"
	"github.com/mikey/phish-dashboard/internal/adapters/web"
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/ports"
	"github.com/mikey/phish-dashboard/internal/session"
	"go.uber.org/zap"
)

// ListenerFactory creates the network front ends based on configuration
type ListenerFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.DashboardService
	sessions  *session.Store
	vocab     evidence.Vocabulary
	formatter *display.Formatter
}

// NewListenerFactory creates a new listener factory
func NewListenerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.DashboardService,
	sessions *session.Store,
	vocab evidence.Vocabulary,
	formatter *display.Formatter,
) *ListenerFactory {
	return &ListenerFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		sessions:  sessions,
		vocab:     vocab,
		formatter: formatter,
	}
}

// CreateListeners creates the web dashboard and, when enabled, the mail intake
func (f *ListenerFactory) CreateListeners() ([]ports.Listener, error) {
	handler := web.NewHandler(f.sessions, f.vocab, f.formatter, f.logger)
	listeners := []ports.Listener{
		web.NewServer(web.NewRouter(handler, f.logger), f.cfg.GetString("server.listen_address"), f.logger),
	}

	intakeCfg := f.cfg.GetIntake()
	if intakeCfg.Enabled {
		listeners = append(listeners, intake.NewServer(
			f.service,
			f.vocab,
			f.formatter,
			intake.NewDomainAllowList(intakeCfg.AllowedDomains, f.logger),
			f.logger,
			intakeCfg.ListenAddress,
			intakeCfg.Domain,
			intakeCfg.RejectPhishing,
		))
	}

	return listeners, nil
}

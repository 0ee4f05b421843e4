package factory

import (
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/session"
	"github.com/mikey/phish-dashboard/internal/views"
	"go.uber.org/zap"
)

// ViewFactory creates view coordinators bound to the dashboard service
type ViewFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.DashboardService
	formatter *display.Formatter
}

// NewViewFactory creates a new view factory
func NewViewFactory(cfg *config.Config, logger *zap.Logger, service *core.DashboardService, formatter *display.Formatter) *ViewFactory {
	return &ViewFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		formatter: formatter,
	}
}

// CreateSession builds a fresh set of coordinators for one browser session
func (f *ViewFactory) CreateSession() *session.Session {
	viewCfg := f.cfg.GetViews()
	return &session.Session{
		URL:     views.NewURLChecker(f.service, f.logger),
		Email:   views.NewEmailChecker(f.service, f.logger),
		History: views.NewHistoryView(f.service, f.formatter, viewCfg.HistoryLimit, f.logger),
		Stats:   views.NewStatsView(f.service, f.formatter, viewCfg.RecentLimit, f.logger),
	}
}

// CreateSessionStore creates the in-memory session store
func (f *ViewFactory) CreateSessionStore() (*session.Store, error) {
	sessionCfg, err := f.cfg.GetSession()
	if err != nil {
		return nil, err
	}
	return session.NewStore(f.CreateSession, sessionCfg.TTL, sessionCfg.CleanupFrequency, f.logger), nil
}

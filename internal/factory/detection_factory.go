package factory

import (
	"github.com/mikey/phish-dashboard/internal/adapters/detection"
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
)

// DetectionFactory creates the detection service client based on configuration
type DetectionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDetectionFactory creates a new detection factory
func NewDetectionFactory(cfg *config.Config, logger *zap.Logger) *DetectionFactory {
	return &DetectionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDetectionClient creates a detection client
func (f *DetectionFactory) CreateDetectionClient() (core.DetectionClient, error) {
	detectionCfg, err := f.cfg.GetDetection()
	if err != nil {
		return nil, err
	}

	httpClient, err := detection.NewHTTPClient(detectionCfg.ProxyURL, detectionCfg.Timeout)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Creating detection client",
		zap.String("base_url", detectionCfg.BaseURL),
		zap.Bool("proxied", detectionCfg.ProxyURL != ""),
		zap.Duration("timeout", detectionCfg.Timeout))

	return detection.NewClient(detectionCfg.BaseURL, httpClient, f.logger)
}

// CreateDashboardService wraps a detection client with the configured history cache
func (f *DetectionFactory) CreateDashboardService(client core.DetectionClient, cacheRepo core.CacheRepository) (*core.DashboardService, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	svc := core.NewDashboardService(client, cacheRepo, f.logger, cacheCfg.Enabled, cacheCfg.TTL)

	// snapshots another replica may have written under the same keys
	viewCfg := f.cfg.GetViews()
	svc.WatchHistory(core.KindURL, viewCfg.HistoryLimit, viewCfg.RecentLimit)
	svc.WatchHistory(core.KindEmail, viewCfg.HistoryLimit)
	return svc, nil
}

package factory

import (
	"github.com/mikey/phish-dashboard/internal/config"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"go.uber.org/zap"
)

// DisplayFactory creates the formatting collaborators shared by all views
type DisplayFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDisplayFactory creates a new DisplayFactory
func NewDisplayFactory(cfg *config.Config, logger *zap.Logger) *DisplayFactory {
	return &DisplayFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFormatter creates a new Formatter
func (f *DisplayFactory) CreateFormatter() *display.Formatter {
	viewCfg := f.cfg.GetViews()
	return display.NewFormatter(f.logger, viewCfg.Locale, viewCfg.Timezone, viewCfg.TruncateLength)
}

// LoadVocabulary loads the feature allow-lists
func (f *DisplayFactory) LoadVocabulary() (evidence.Vocabulary, error) {
	path := f.cfg.GetViews().VocabularyFile
	if path != "" {
		f.logger.Info("Loading feature vocabulary", zap.String("file", path))
	}
	return evidence.LoadVocabulary(path)
}

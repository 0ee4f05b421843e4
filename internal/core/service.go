package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DashboardService is the gateway every view uses to reach the detection service
type DashboardService struct {
	client       DetectionClient
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration

	mu         sync.Mutex
	cachedKeys map[CheckKind]map[string]struct{}
	knownKeys  map[CheckKind][]string
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	client DetectionClient,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		client:       client,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil && cacheTTL > 0,
		cacheTTL:     cacheTTL,
		cachedKeys:   make(map[CheckKind]map[string]struct{}),
		knownKeys:    make(map[CheckKind][]string),
	}
}

func historyKey(kind CheckKind, limit int) string {
	return fmt.Sprintf("history:%s:%d", kind, limit)
}

// WatchHistory registers the limits the views fetch with. Their keys are
// invalidated on every check of kind, even when another process cached them.
func (s *DashboardService) WatchHistory(kind CheckKind, limits ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, limit := range limits {
		if limit <= 0 {
			continue
		}
		key := historyKey(kind, limit)
		if !slices.Contains(s.knownKeys[kind], key) {
			s.knownKeys[kind] = append(s.knownKeys[kind], key)
		}
	}
}

// CheckURL submits a URL check
func (s *DashboardService) CheckURL(ctx context.Context, req URLCheckRequest) (*DetectionResult, error) {
	result, err := s.client.CheckURL(ctx, req)
	if err != nil {
		s.logger.Warn("URL check failed", zap.String("url", req.URL), zap.Error(err))
		return nil, err
	}

	s.logger.Info("URL checked",
		zap.String("url", req.URL),
		zap.Bool("fetch_content", req.FetchContent),
		zap.Bool("is_phishing", result.IsPhishing),
		zap.Float64("confidence", result.Confidence))

	s.invalidateHistory(ctx, KindURL)
	return result, nil
}

// CheckEmail submits an email check
func (s *DashboardService) CheckEmail(ctx context.Context, req EmailCheckRequest) (*DetectionResult, error) {
	result, err := s.client.CheckEmail(ctx, req)
	if err != nil {
		s.logger.Warn("Email check failed", zap.String("sender", req.Sender), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Email checked",
		zap.String("sender", req.Sender),
		zap.Int("body_length", len(req.Body)),
		zap.Bool("is_phishing", result.IsPhishing),
		zap.Float64("confidence", result.Confidence),
		zap.Int("analyzed_urls", len(result.AnalyzedURLs)))

	s.invalidateHistory(ctx, KindEmail)
	return result, nil
}

// Stats fetches the aggregate counts and recomputes the derived percentage
func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.client.Stats(ctx)
	if err != nil {
		return nil, err
	}

	out := &Stats{
		URLs:   s.normalize(KindURL, stats.URLs),
		Emails: s.normalize(KindEmail, stats.Emails),
	}
	return out, nil
}

func (s *DashboardService) normalize(kind CheckKind, in CategoryStats) CategoryStats {
	out := in.Normalize()
	if out.Total != in.Total || math.Abs(out.PhishingPercentage-in.PhishingPercentage) > 0.05 {
		s.logger.Warn("Detection service stats are inconsistent, using recomputed values",
			zap.String("kind", string(kind)),
			zap.Int("reported_total", in.Total),
			zap.Int("total", out.Total),
			zap.Float64("reported_percentage", in.PhishingPercentage),
			zap.Float64("percentage", out.PhishingPercentage))
	}
	return out
}

// History fetches recent records, reading through the cache when enabled
func (s *DashboardService) History(ctx context.Context, kind CheckKind, limit int) ([]HistoryRecord, error) {
	key := historyKey(kind, limit)

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			var records []HistoryRecord
			if err := json.Unmarshal(entry.Payload, &records); err == nil {
				s.logger.Debug("Cache hit for history", zap.String("key", key))
				return records, nil
			}
			s.logger.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		}
	}

	records, err := s.client.History(ctx, kind, limit)
	if err != nil {
		s.logger.Warn("History fetch failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	if s.cacheEnabled {
		payload, err := json.Marshal(records)
		if err != nil {
			s.logger.Error("Failed to encode history for cache", zap.Error(err))
			return records, nil
		}
		now := time.Now()
		entry := &CacheEntry{
			Key:       key,
			Payload:   payload,
			StoredAt:  now,
			ExpiresAt: now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		} else {
			s.rememberKey(kind, key)
		}
	}

	return records, nil
}

func (s *DashboardService) rememberKey(kind CheckKind, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, ok := s.cachedKeys[kind]
	if !ok {
		keys = make(map[string]struct{})
		s.cachedKeys[kind] = keys
	}
	keys[key] = struct{}{}
}

// invalidateHistory drops cached snapshots of a kind after a new check of that kind
func (s *DashboardService) invalidateHistory(ctx context.Context, kind CheckKind) {
	if !s.cacheEnabled {
		return
	}

	s.mu.Lock()
	keys := s.cachedKeys[kind]
	if keys == nil {
		keys = make(map[string]struct{})
	}
	delete(s.cachedKeys, kind)
	for _, key := range s.knownKeys[kind] {
		keys[key] = struct{}{}
	}
	s.mu.Unlock()

	for key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Error("Failed to invalidate cached history", zap.String("key", key), zap.Error(err))
		}
	}
}

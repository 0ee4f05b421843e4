package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means no entry is stored under the key
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired means the entry exists but its TTL has passed
	ErrExpired = errors.New("cache entry expired")
)

// MemoryCache keeps history snapshots in process memory.
// Payloads are copied on the way in and out so callers cannot alias them.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]core.CacheEntry
	logger  *zap.Logger
	sweep   *sweeper
}

// NewMemoryCache creates an empty cache, sweeping expired entries every cleanupFreq
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]core.CacheEntry),
		logger:  logger,
	}
	c.sweep = startSweeper(cleanupFreq, logger, c.Cleanup)
	return c
}

func clonePayload(p []byte) []byte {
	return append([]byte(nil), p...)
}

func (c *MemoryCache) Get(_ context.Context, key string) (*core.CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	switch {
	case !ok:
		return nil, ErrNotFound
	case !time.Now().Before(entry.ExpiresAt):
		return nil, ErrExpired
	}
	entry.Payload = clonePayload(entry.Payload)
	return &entry, nil
}

func (c *MemoryCache) Set(_ context.Context, entry *core.CacheEntry) error {
	stored := *entry
	stored.Payload = clonePayload(entry.Payload)

	c.mu.Lock()
	c.entries[stored.Key] = stored
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Cleanup drops every entry whose TTL has passed
func (c *MemoryCache) Cleanup(_ context.Context) error {
	now := time.Now()
	purged := 0

	c.mu.Lock()
	for key, entry := range c.entries {
		if now.Before(entry.ExpiresAt) {
			continue
		}
		delete(c.entries, key)
		purged++
	}
	c.mu.Unlock()

	if purged > 0 {
		c.logger.Debug("Purged expired history snapshots", zap.Int("count", purged))
	}
	return nil
}

// Len counts stored entries, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop ends the background sweep
func (c *MemoryCache) Stop() {
	c.sweep.stop()
}

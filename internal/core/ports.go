package core

import (
	"context"
)

// DetectionClient defines the interface for talking to the detection service
type DetectionClient interface {
	// CheckURL submits a URL for classification
	CheckURL(ctx context.Context, req URLCheckRequest) (*DetectionResult, error)

	// CheckEmail submits email content for classification
	CheckEmail(ctx context.Context, req EmailCheckRequest) (*DetectionResult, error)

	// Stats fetches the aggregate counts for both check kinds
	Stats(ctx context.Context) (*Stats, error)

	// History fetches the most recent records of a kind, newest first
	History(ctx context.Context, kind CheckKind, limit int) ([]HistoryRecord, error)
}

// CacheRepository defines the interface for caching history snapshots
type CacheRepository interface {
	// Get retrieves an unexpired entry
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores an entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes an entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLCache_SQLite(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), 0)
	require.NoError(t, err)
	defer c.Stop()

	_, err = c.Get(ctx, "history:emails:20")
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now()
	require.NoError(t, c.Set(ctx, &core.CacheEntry{
		Key:       "history:emails:20",
		Payload:   []byte(`[]`),
		StoredAt:  now,
		ExpiresAt: now.Add(time.Minute),
	}))

	entry, err := c.Get(ctx, "history:emails:20")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(entry.Payload))
	assert.Equal(t, now.UnixNano(), entry.StoredAt.UnixNano())

	// replacing an entry keeps a single row
	require.NoError(t, c.Set(ctx, &core.CacheEntry{
		Key:       "history:emails:20",
		Payload:   []byte(`[{"id":"2"}]`),
		StoredAt:  now,
		ExpiresAt: now.Add(time.Minute),
	}))
	entry, err = c.Get(ctx, "history:emails:20")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"2"}]`, string(entry.Payload))

	require.NoError(t, c.Delete(ctx, "history:emails:20"))
	_, err = c.Get(ctx, "history:emails:20")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLCache_SQLiteCleanup(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), 0)
	require.NoError(t, err)
	defer c.Stop()

	require.NoError(t, c.Set(ctx, &core.CacheEntry{
		Key:       "old",
		Payload:   []byte(`[]`),
		StoredAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err = c.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Cleanup(ctx))

	var count int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM history_cache`).Scan(&count))
	assert.Zero(t, count)
}

func TestSQLCache_DialectPlaceholders(t *testing.T) {
	for _, d := range []dialect{sqliteDialect, mysqlDialect} {
		assert.NotContains(t, d.get+d.upsert+d.remove+d.purge, "$1", d.label)
	}
	assert.Contains(t, postgresDialect.upsert, "$4")
	assert.Contains(t, postgresDialect.upsert, "ON CONFLICT (cache_key)")
	assert.Contains(t, mysqlDialect.upsert, "ON DUPLICATE KEY UPDATE")
}

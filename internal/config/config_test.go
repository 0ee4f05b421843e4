package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	det, err := cfg.GetDetection()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", det.BaseURL)
	assert.Equal(t, time.Duration(0), det.Timeout)

	views := cfg.GetViews()
	assert.Equal(t, 20, views.HistoryLimit)
	assert.Equal(t, 50, views.TruncateLength)
	assert.Equal(t, 5, views.RecentLimit)
	assert.Equal(t, "en-US", views.Locale)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.True(t, cache.Enabled)
	assert.Equal(t, "memory", cache.Type)
	assert.Equal(t, 30*time.Second, cache.TTL)

	assert.False(t, cfg.GetIntake().Enabled)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
detection:
  base_url: http://detector:9000
cache:
  type: sqlite
  ttl: 2m
intake:
  enabled: true
  allowed_domains: [example.com, corp.example]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	det, err := cfg.GetDetection()
	require.NoError(t, err)
	assert.Equal(t, "http://detector:9000", det.BaseURL)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cache.Type)
	assert.Equal(t, 2*time.Minute, cache.TTL)

	intake := cfg.GetIntake()
	assert.True(t, intake.Enabled)
	assert.Equal(t, []string{"example.com", "corp.example"}, intake.AllowedDomains)
}

func TestInvalidDuration(t *testing.T) {
	cfg := Defaults()
	cfg.Set("session.ttl", "forever")
	_, err := cfg.GetSession()
	assert.ErrorContains(t, err, "session.ttl")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PHISH_DASHBOARD_DETECTION_BASE_URL", "http://env-detector:5000")
	t.Setenv("PHISH_DASHBOARD_HISTORY_LIMIT", "7")

	cfg := Defaults()
	det, err := cfg.GetDetection()
	require.NoError(t, err)
	assert.Equal(t, "http://env-detector:5000", det.BaseURL)
	assert.Equal(t, 7, cfg.GetViews().HistoryLimit)
	assert.Empty(t, cfg.FileUsed())
}

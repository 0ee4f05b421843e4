package config

import (
	"fmt"
	"time"
)

// DetectionConfig describes how to reach the detection service
type DetectionConfig struct {
	BaseURL  string
	ProxyURL string
	Timeout  time.Duration
}

// ViewConfig holds the display settings shared by all views
type ViewConfig struct {
	HistoryLimit   int
	TruncateLength int
	RecentLimit    int
	Locale         string
	Timezone       string
	VocabularyFile string
}

// CacheConfig selects and configures the history cache backend
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	PostgresDSN      string
	RedisURL         string
}

// SessionConfig controls how long per-browser view state is kept
type SessionConfig struct {
	TTL              time.Duration
	CleanupFrequency time.Duration
}

// IntakeConfig configures the SMTP intake listener
type IntakeConfig struct {
	Enabled        bool
	ListenAddress  string
	Domain         string
	RejectPhishing bool
	AllowedDomains []string
}

// GetDetection returns the detection service configuration
func (c *Config) GetDetection() (DetectionConfig, error) {
	timeout, err := c.GetDuration("detection.timeout")
	if err != nil {
		return DetectionConfig{}, fmt.Errorf("invalid detection timeout: %w", err)
	}
	return DetectionConfig{
		BaseURL:  c.GetString("detection.base_url"),
		ProxyURL: c.GetString("detection.proxy_url"),
		Timeout:  timeout,
	}, nil
}

// GetViews returns the view configuration
func (c *Config) GetViews() ViewConfig {
	return ViewConfig{
		HistoryLimit:   c.GetInt("history.limit"),
		TruncateLength: c.GetInt("history.truncate_length"),
		RecentLimit:    c.GetInt("dashboard.recent_limit"),
		Locale:         c.GetString("display.locale"),
		Timezone:       c.GetString("display.timezone"),
		VocabularyFile: c.GetString("evidence.vocabulary_file"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache ttl: %w", err)
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		PostgresDSN:      c.GetString("cache.postgres_dsn"),
		RedisURL:         c.GetString("cache.redis_url"),
	}, nil
}

// GetSession returns the session configuration
func (c *Config) GetSession() (SessionConfig, error) {
	ttl, err := c.GetDuration("session.ttl")
	if err != nil {
		return SessionConfig{}, fmt.Errorf("invalid session ttl: %w", err)
	}
	cleanup, err := c.GetDuration("session.cleanup_frequency")
	if err != nil {
		return SessionConfig{}, fmt.Errorf("invalid session cleanup frequency: %w", err)
	}
	return SessionConfig{TTL: ttl, CleanupFrequency: cleanup}, nil
}

// GetIntake returns the SMTP intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Enabled:        c.GetBool("intake.enabled"),
		ListenAddress:  c.GetString("intake.listen_address"),
		Domain:         c.GetString("intake.domain"),
		RejectPhishing: c.GetBool("intake.reject_phishing"),
		AllowedDomains: c.GetStringSlice("intake.allowed_domains"),
	}
}

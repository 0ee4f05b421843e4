package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/phish-dashboard/internal/core"
	"go.uber.org/zap"
)

// dialect holds the driver name and the statements that differ between
// the SQL backends. Timestamps are stored as Unix nanoseconds everywhere.
type dialect struct {
	label  string
	driver string
	ping   bool
	schema []string
	get    string
	upsert string
	remove string
	purge  string
}

var sqliteDialect = dialect{
	label:  "SQLite",
	driver: "sqlite3",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS history_cache (
			cache_key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			stored_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_cache_expires_at ON history_cache(expires_at)`,
	},
	get:    `SELECT payload, stored_at, expires_at FROM history_cache WHERE cache_key = ? AND expires_at > ?`,
	upsert: `INSERT OR REPLACE INTO history_cache (cache_key, payload, stored_at, expires_at) VALUES (?, ?, ?, ?)`,
	remove: `DELETE FROM history_cache WHERE cache_key = ?`,
	purge:  `DELETE FROM history_cache WHERE expires_at <= ?`,
}

var mysqlDialect = dialect{
	label:  "MySQL",
	driver: "mysql",
	ping:   true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS history_cache (
			cache_key VARCHAR(255) PRIMARY KEY,
			payload MEDIUMBLOB NOT NULL,
			stored_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_history_cache_expires_at (expires_at)
		)`,
	},
	get: `SELECT payload, stored_at, expires_at FROM history_cache WHERE cache_key = ? AND expires_at > ?`,
	upsert: `INSERT INTO history_cache (cache_key, payload, stored_at, expires_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), stored_at = VALUES(stored_at), expires_at = VALUES(expires_at)`,
	remove: `DELETE FROM history_cache WHERE cache_key = ?`,
	purge:  `DELETE FROM history_cache WHERE expires_at <= ?`,
}

var postgresDialect = dialect{
	label:  "PostgreSQL",
	driver: "postgres",
	ping:   true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS history_cache (
			cache_key VARCHAR(255) PRIMARY KEY,
			payload BYTEA NOT NULL,
			stored_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_cache_expires_at ON history_cache(expires_at)`,
	},
	get: `SELECT payload, stored_at, expires_at FROM history_cache WHERE cache_key = $1 AND expires_at > $2`,
	upsert: `INSERT INTO history_cache (cache_key, payload, stored_at, expires_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at, expires_at = EXCLUDED.expires_at`,
	remove: `DELETE FROM history_cache WHERE cache_key = $1`,
	purge:  `DELETE FROM history_cache WHERE expires_at <= $1`,
}

// SQLCache stores history snapshots in a history_cache table
type SQLCache struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
	sweep   *sweeper
}

// NewSQLiteCache opens (or creates) a SQLite database file
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	return openSQLCache(sqliteDialect, dbPath, logger, cleanupFreq)
}

// NewMySQLCache connects to MySQL with a go-sql-driver DSN
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	return openSQLCache(mysqlDialect, dsn, logger, cleanupFreq)
}

// NewPostgresCache connects to PostgreSQL with a lib/pq DSN or URL
func NewPostgresCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	c, err := openSQLCache(postgresDialect, dsn, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	c.db.SetMaxOpenConns(5)
	c.db.SetMaxIdleConns(1)
	c.db.SetConnMaxLifetime(5 * time.Minute)
	return c, nil
}

func openSQLCache(d dialect, dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.label, err)
	}
	if d.ping {
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to %s database: %w", d.label, err)
		}
	}
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare %s schema: %w", d.label, err)
		}
	}

	c := &SQLCache{db: db, dialect: d, logger: logger}
	c.sweep = startSweeper(cleanupFreq, logger, c.Cleanup)
	return c, nil
}

func (c *SQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var storedAt, expiresAt int64
	entry := core.CacheEntry{Key: key}

	row := c.db.QueryRowContext(ctx, c.dialect.get, key, time.Now().UnixNano())
	if err := row.Scan(&entry.Payload, &storedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %q from %s cache: %w", key, c.dialect.label, err)
	}

	entry.StoredAt = time.Unix(0, storedAt)
	entry.ExpiresAt = time.Unix(0, expiresAt)
	return &entry, nil
}

func (c *SQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, c.dialect.upsert,
		entry.Key, entry.Payload, entry.StoredAt.UnixNano(), entry.ExpiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to write %q to %s cache: %w", entry.Key, c.dialect.label, err)
	}
	return nil
}

func (c *SQLCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.remove, key); err != nil {
		return fmt.Errorf("failed to delete %q from %s cache: %w", key, c.dialect.label, err)
	}
	return nil
}

// Cleanup deletes rows whose TTL has passed
func (c *SQLCache) Cleanup(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx, c.dialect.purge, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to purge %s cache: %w", c.dialect.label, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.logger.Debug("Purged expired history snapshots",
			zap.String("backend", c.dialect.label), zap.Int64("count", n))
	}
	return nil
}

// Stop ends the background sweep and closes the database
func (c *SQLCache) Stop() {
	c.sweep.stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close cache database", zap.String("backend", c.dialect.label), zap.Error(err))
	}
}

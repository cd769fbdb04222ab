package opsmap

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
	dbRedis "github.com/kailas-cloud/opsmap/internal/db/redis"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver        string
	dsn           string
	db            *gorm.DB
	cache         CacheConfig
	snippetLength int
	logger        *zap.Logger
}

// WithPostgres connects to PostgreSQL with the given DSN.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = gormdb.DriverPostgres
		c.dsn = dsn
	}
}

// WithSQLite opens a SQLite database. Use "file::memory:" for an in-memory catalog.
func WithSQLite(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = gormdb.DriverSQLite
		c.dsn = dsn
	}
}

// WithDB uses an existing gorm connection. The catalog tables are migrated on New.
// Close does not close a connection passed this way.
func WithDB(db *gorm.DB) Option {
	return func(c *clientConfig) {
		c.db = db
	}
}

// CacheConfig locates the Redis/Valkey result cache. Clients that share a
// cache must use the same Username and DB so imports invalidate it.
type CacheConfig struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// TTL <= 0 keeps the default.
	TTL time.Duration
}

func (c CacheConfig) redis() dbRedis.Config {
	return dbRedis.Config{Addrs: c.Addrs, Username: c.Username, Password: c.Password, DB: c.DB}
}

// WithCache enables the result cache on the default database without an ACL user.
func WithCache(addrs []string, password string, ttl time.Duration) Option {
	return WithCacheConfig(CacheConfig{Addrs: addrs, Password: password, TTL: ttl})
}

// WithCacheConfig enables the result cache.
func WithCacheConfig(cc CacheConfig) Option {
	return func(c *clientConfig) {
		c.cache = cc
	}
}

// WithSnippetLength overrides the maximum snippet length.
func WithSnippetLength(n int) Option {
	return func(c *clientConfig) {
		c.snippetLength = n
	}
}

// WithLogger sets the logger used for search and cache diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

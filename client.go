// Package opsmap searches an organization's processes, roles, systems and
// actions, and imports workspace catalogs into the relational store.
package opsmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/opsmap/internal/db/gormdb"
	dbRedis "github.com/kailas-cloud/opsmap/internal/db/redis"
	"github.com/kailas-cloud/opsmap/internal/domain"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/opsmap/internal/logger"
	"github.com/kailas-cloud/opsmap/internal/metrics"
	"github.com/kailas-cloud/opsmap/internal/repository/catalog"
	"github.com/kailas-cloud/opsmap/internal/repository/resultcache"
	searchuc "github.com/kailas-cloud/opsmap/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Sentinel errors callers can match with errors.Is.
var (
	ErrSearchUnavailable = domain.ErrSearchUnavailable
	ErrInvalidRequest    = domain.ErrInvalidRequest
)

// Result is one ranked hit in its wire shape.
type Result = result.Flat

// ImportStats counts the rows written by Import.
type ImportStats = catalog.ImportStats

// Response is the outcome of a search.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Client is the opsmap SDK entry point.
type Client struct {
	store      *gormdb.Store
	ownsStore  bool
	catalog    *catalog.Repo
	cacheStore *dbRedis.Store
	cache      *resultcache.Cache
	searchSvc  *searchuc.Service
	logger     *zap.Logger
}

// New creates a Client, connects to the database and migrates the catalog tables.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, owns, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		store:     store,
		ownsStore: owns,
		catalog:   catalog.New(store.DB()),
		logger:    cfg.logger,
	}
	c.searchSvc = searchuc.New(c.catalog).WithSnippetLength(cfg.snippetLength)

	if len(cfg.cache.Addrs) > 0 {
		cs, err := dbRedis.NewStore(cfg.cache.redis())
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("opsmap: create cache store: %w", err)
		}
		c.cacheStore = cs
		c.cache = resultcache.New(cs, cfg.cache.TTL, metrics.ResultCacheTotal, cfg.logger)
		c.searchSvc.WithCache(c.cache)
	}

	return c, nil
}

func openStore(ctx context.Context, cfg *clientConfig) (*gormdb.Store, bool, error) {
	if cfg.db != nil {
		s := gormdb.Wrap(cfg.db)
		if err := s.Migrate(); err != nil {
			return nil, false, fmt.Errorf("opsmap: migrate: %w", err)
		}
		return s, false, nil
	}

	if cfg.driver == "" {
		return nil, false, errors.New("opsmap: database required (use WithPostgres, WithSQLite or WithDB)")
	}

	s, err := gormdb.Open(gormdb.Config{Driver: cfg.driver, DSN: cfg.dsn})
	if err != nil {
		return nil, false, fmt.Errorf("opsmap: open %s: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		_ = s.Close()
		return nil, false, fmt.Errorf("opsmap: database not ready: %w", err)
	}
	return s, true, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cacheStore != nil {
		c.cacheStore.Close()
	}
	if c.store != nil && c.ownsStore {
		if err := c.store.Close(); err != nil {
			c.logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a free-text search within org. limit <= 0 selects the default
// of 20; larger values are capped at 50. Queries shorter than two characters
// return no results.
func (c *Client) Search(ctx context.Context, org, query string, limit int) (*Response, error) {
	req := request.New(query, limit)
	ctx = logpkg.With(logpkg.ContextWithLogger(ctx, c.logger), zap.String("org_id", org))

	resp, err := c.searchSvc.Search(ctx, org, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &Response{Query: resp.Query, Results: result.FlattenAll(resp.Results)}, nil
}

// Import loads a YAML workspace fixture into org and invalidates cached
// searches for that org.
func (c *Client) Import(ctx context.Context, org string, fixture []byte) (ImportStats, error) {
	f, err := catalog.ParseFixture(fixture)
	if err != nil {
		return ImportStats{}, fmt.Errorf("import: %w", err)
	}

	stats, err := c.catalog.Import(ctx, org, f)
	if err != nil {
		return ImportStats{}, fmt.Errorf("import: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Invalidate(ctx, org); err != nil {
			c.logger.Warn("Failed to invalidate search cache", zap.String("org_id", org), zap.Error(err))
		}
	}
	return stats, nil
}

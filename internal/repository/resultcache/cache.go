// Package resultcache caches finished search responses in a key-value store.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsmap/internal/db"
	"github.com/kailas-cloud/opsmap/internal/domain/search/request"
	"github.com/kailas-cloud/opsmap/internal/domain/search/result"
)

const (
	keyPrefix    = "opsmap:search:"
	genKeyPrefix = "opsmap:gen:"

	// DefaultTTL bounds staleness when nothing invalidates the org.
	DefaultTTL = 5 * time.Minute
)

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Cache implements usecase/search.Cache. Entries are keyed by org generation,
// query and limit, so bumping the generation drops every entry for the org.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// entry is the cached JSON document.
type entry struct {
	Query   string        `json:"query"`
	Results []result.Flat `json:"results"`
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns a cached response. Store failures count as a miss.
func (c *Cache) Get(ctx context.Context, orgID string, req *request.Request) (result.Response, bool) {
	key, ok := c.key(ctx, orgID, req)
	if !ok {
		c.inc("miss")
		return result.Response{}, false
	}

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return result.Response{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached search", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return result.Response{}, false
	}

	resp := result.Response{Query: e.Query, Results: make([]result.Result, 0, len(e.Results))}
	for _, f := range e.Results {
		r := result.Reconstruct(f)
		if r == nil {
			c.logger.Warn("Unknown result type in cache", zap.String("key", key), zap.String("type", string(f.Type)))
			c.inc("miss")
			return result.Response{}, false
		}
		resp.Results = append(resp.Results, r)
	}

	c.inc("hit")
	return resp, true
}

// Put stores resp. Failures are logged and otherwise ignored.
func (c *Cache) Put(ctx context.Context, orgID string, req *request.Request, resp result.Response) {
	key, ok := c.key(ctx, orgID, req)
	if !ok {
		return
	}

	data, err := json.Marshal(entry{Query: resp.Query, Results: result.FlattenAll(resp.Results)})
	if err != nil {
		c.logger.Warn("Failed to encode search for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the org generation, orphaning every cached response for orgID.
func (c *Cache) Invalidate(ctx context.Context, orgID string) error {
	if _, err := c.store.Incr(ctx, genKeyPrefix+orgID); err != nil {
		return fmt.Errorf("invalidate search cache for %s: %w", orgID, err)
	}
	return nil
}

func (c *Cache) inc(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}

// key derives the cache key. It fails when the generation is unreadable.
func (c *Cache) key(ctx context.Context, orgID string, req *request.Request) (string, bool) {
	gen, err := c.generation(ctx, orgID)
	if err != nil {
		c.logger.Warn("Failed to read search cache generation", zap.String("org_id", orgID), zap.Error(err))
		return "", false
	}

	h := sha256.New()
	for _, part := range []string{orgID, gen, req.Query(), strconv.Itoa(req.Limit())} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), true
}

func (c *Cache) generation(ctx context.Context, orgID string) (string, error) {
	data, err := c.store.Get(ctx, genKeyPrefix+orgID)
	if errors.Is(err, db.ErrKeyNotFound) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("get generation: %w", err)
	}
	return string(data), nil
}

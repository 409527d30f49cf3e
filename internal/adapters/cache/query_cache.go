package cache

import (
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

const queryCacheSize = 32

// QueryCache holds activity query results until they expire or are invalidated
type QueryCache struct {
	cache *expirable.LRU[domain.QueryKey, []models.ActivityRecord]
	log   *slog.Logger
}

// NewQueryCache creates a query cache with the configured TTL
func NewQueryCache(cfg *config.RuntimeConfig, log *slog.Logger) *QueryCache {
	return newQueryCache(cfg.API.CacheTTL, log)
}

func newQueryCache(ttl time.Duration, log *slog.Logger) *QueryCache {
	return &QueryCache{
		cache: expirable.NewLRU[domain.QueryKey, []models.ActivityRecord](queryCacheSize, nil, ttl),
		log:   log.With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(key domain.QueryKey) ([]models.ActivityRecord, bool) {
	records, ok := c.cache.Get(key)
	c.log.Debug("lookup", "key", key.String(), "hit", ok)
	return records, ok
}

func (c *QueryCache) Set(key domain.QueryKey, records []models.ActivityRecord) {
	c.cache.Add(key, records)
}

// Invalidate drops key so the next read refetches
func (c *QueryCache) Invalidate(key domain.QueryKey) {
	if c.cache.Remove(key) {
		c.log.Debug("invalidated", "key", key.String())
	}
}

var _ usecase.QueryCache = (*QueryCache)(nil)

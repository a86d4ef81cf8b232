package cache

import (
	"context"
	"strings"
	"time"

	"github.com/gymportal/portal/internal/config"
	"github.com/gymportal/portal/internal/logger"
	goCache "github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache.
// A disabled cache misses on every Get and drops every Set.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache builds a process-local cache; each caller owns its instance
func NewInMemoryCache(defaultExpiration, cleanupInterval time.Duration, enabled bool) *InMemoryCache {
	if defaultExpiration <= 0 {
		defaultExpiration = DefaultExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &InMemoryCache{
		cache:   goCache.New(defaultExpiration, cleanupInterval),
		enabled: enabled,
	}
}

// Initialize provides the shared application cache through fx
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache", "enabled", cfg.Cache.Enabled)
	return NewInMemoryCache(cfg.Cache.CustomerTTL, DefaultCleanupInterval, cfg.Cache.Enabled)
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}

package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymportal/portal/internal/cache"
	"github.com/gymportal/portal/internal/config"
	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/gymportal/portal/internal/types"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per caller, keyed by user id when
// authenticated and by client IP otherwise. Buckets live in their own cache
// and expire once the caller has been idle for the configured TTL.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.InMemoryCache
	idleTTL  time.Duration
	limit    rate.Limit
	burst    int
	enabled  bool
}

func NewRateLimiter(cfg *config.Configuration) *RateLimiter {
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}
	idleTTL := cfg.RateLimit.IdleTTL
	if idleTTL <= 0 {
		idleTTL = defaultLimiterIdleTTL
	}
	return &RateLimiter{
		limiters: cache.NewInMemoryCache(idleTTL, idleTTL, true),
		idleTTL:  idleTTL,
		limit:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
		burst:    burst,
		enabled:  cfg.RateLimit.Enabled,
	}
}

func (r *RateLimiter) limiter(ctx context.Context, caller string) *rate.Limiter {
	key := cache.GenerateKey(cache.PrefixRateLimit, caller)

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters.Get(ctx, key)
	bucket, _ := l.(*rate.Limiter)
	if !ok || bucket == nil {
		bucket = rate.NewLimiter(r.limit, r.burst)
	}
	// every request pushes the expiry out again
	r.limiters.Set(ctx, key, bucket, r.idleTTL)
	return bucket
}

// Middleware rejects callers over their budget with 429
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	if !r.enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		caller := types.GetUserID(ctx)
		if caller == "" {
			caller = c.ClientIP()
		}

		if !r.limiter(ctx, caller).Allow() {
			abortWithError(c, ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please slow down").
				Mark(ierr.ErrTooManyRequests))
			return
		}
		c.Next()
	}
}

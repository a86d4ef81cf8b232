package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get returns the value and whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value with the given expiration; 0 uses the cache default
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	Flush(ctx context.Context)
}

const (
	PrefixSession          = "session:v1:"
	PrefixStripeCustomer   = "stripe_customer:v1:"
	PrefixUserByCustomerID = "user_by_customer:v1:"
	PrefixRateLimit        = "rate_limit:v1:"
)

// GenerateKey joins the prefix and params with colons
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = strings.TrimSuffix(prefix, ":")

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/order-system/internal/api/metrics"
	"github.com/orderdesk/order-system/internal/core/domain"
)

const defaultIdentityTTL = time.Hour

// IdentityCache stores identity projections in Redis as JSON values keyed by
// user:<id>. Writes replace the whole entry; there is no partial mutation
// and no invalidation hook, so staleness is bounded only by the TTL.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache creates an IdentityCache with the given TTL. A
// non-positive TTL falls back to one hour.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityCache{client: client, ttl: ttl}
}

// Get returns the cached projection or domain.ErrCacheMiss.
func (c *IdentityCache) Get(ctx context.Context, id string) (*domain.Principal, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("identity cache get: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		// Treat a corrupt entry as a miss; the resolver overwrites it.
		metrics.IdentityCacheTotal.WithLabelValues("miss").Inc()
		return nil, domain.ErrCacheMiss
	}

	metrics.IdentityCacheTotal.WithLabelValues("hit").Inc()
	return &p, nil
}

// Set writes the projection with the configured TTL.
func (c *IdentityCache) Set(ctx context.Context, principal *domain.Principal) error {
	raw, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("identity cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(principal.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

func (c *IdentityCache) key(id string) string {
	return "user:" + id
}

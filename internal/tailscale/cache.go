package tailscale

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
)

// IdentityCache stores whois answers by IP.
type IdentityCache interface {
	GetIdentity(ctx context.Context, ip string) (*UserProfile, bool, error)
	SetIdentity(ctx context.Context, ip string, p *UserProfile, ttl time.Duration) error
}

// CachedResolver consults cache before the wrapped resolver. Cache errors
// are logged and never fail a lookup. Failed lookups are not cached.
type CachedResolver struct {
	next   Resolver
	cache  IdentityCache
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedResolver(next Resolver, cache IdentityCache, ttl time.Duration, log logger.Logger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, ttl: ttl, logger: log}
}

func (c *CachedResolver) WhoIs(ctx context.Context, ip string) (*UserProfile, error) {
	start := time.Now()

	p, ok, err := c.cache.GetIdentity(ctx, ip)
	switch {
	case err != nil:
		c.logger.Warn("identity cache read failed", logger.String("ip", ip), logger.Error(err))
	case ok:
		metrics.ObserveWhois("cache", time.Since(start))
		return p, nil
	}

	p, err = c.next.WhoIs(ctx, ip)
	metrics.ObserveWhois("tailscale", time.Since(start))
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetIdentity(ctx, ip, p, c.ttl); err != nil {
		c.logger.Warn("identity cache write failed", logger.String("ip", ip), logger.Error(err))
	}
	return p, nil
}

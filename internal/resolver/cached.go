package resolver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/guzellestir/tenantgate/internal/cache"
)

// Cached wraps a Source with a bounded-TTL cache. Definitive outcomes
// (found, not found, inactive) are cached; lookup failures never are, so a
// transient outage cannot pin a stale answer. The TTL is the staleness
// bound: a deactivated tenant stops resolving within one TTL.
type Cached struct {
	inner Source
	cache cache.Cache
	ttl   time.Duration
}

// NewCached wraps inner with a cache of the given TTL.
func NewCached(inner Source, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: c, ttl: ttl}
}

func (c *Cached) Name() string { return c.inner.Name() + "+cache" }

func (c *Cached) Resolve(ctx context.Context, slug string) (Result, error) {
	key := cache.TenantLookupKey(slug)

	if raw, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var res Result
		if err := json.Unmarshal(raw, &res); err == nil && res.Outcome != "" && res.Outcome != OutcomeError {
			return res, nil
		}
	} else if err != nil {
		slog.Warn("lookup cache read failed", "slug", slug, "error", err)
	}

	res, err := c.inner.Resolve(ctx, slug)
	if err != nil {
		return res, err
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			slog.Warn("lookup cache write failed", "slug", slug, "error", err)
		}
	}
	return res, nil
}

// Invalidate drops the cached outcome for slug, used when the admin console
// changes a tenant so the new state is visible before the TTL elapses.
func (c *Cached) Invalidate(ctx context.Context, slug string) error {
	return c.cache.Delete(ctx, cache.TenantLookupKey(slug))
}

var _ Source = (*Cached)(nil)

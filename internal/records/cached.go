package records

import (
	"context"
	"encoding/json"
	"time"

	"classaction-admin/internal/cache"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/common/metrics"
	"classaction-admin/internal/models"
)

// DefaultTTL is how long a fetched record set is served from cache.
const DefaultTTL = 600 * time.Second

// Cached memoizes the two list fetches of a Store for ttl. A failing cache
// backend never fails a read; the store is queried directly instead.
type Cached struct {
	store  Store
	cache  cache.Cache
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

type CachedOption func(*Cached)

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) CachedOption {
	return func(c *Cached) { c.now = now }
}

func NewCached(store Store, c cache.Cache, ttl time.Duration, log logger.Logger, opts ...CachedOption) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cs := &Cached{
		store:  store,
		cache:  c,
		ttl:    ttl,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "records-cache"}),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

func (c *Cached) ListMembers(ctx context.Context) ([]models.Member, error) {
	return fetch(ctx, c, cache.KindMembers, c.store.ListMembers)
}

func (c *Cached) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	return fetch(ctx, c, cache.KindSubmissions, c.store.ListSubmissions)
}

// Invalidate drops every cached record set so the next read hits the store.
func (c *Cached) Invalidate(ctx context.Context) error {
	if err := c.cache.Invalidate(ctx, cache.AllKinds...); err != nil {
		c.logger.Error("cache invalidate failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	c.logger.Info("record cache invalidated", nil)
	return nil
}

// fetch serves kind from a fresh cache entry, or calls load and caches
// its result.
func fetch[T any](ctx context.Context, c *Cached, kind cache.Kind, load func(context.Context) ([]T, error)) ([]T, error) {
	entry, ok, err := c.cache.Load(ctx, kind)
	switch {
	case err != nil:
		c.logger.Warn("cache load failed, reading store", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		metrics.CacheLookups.WithLabelValues(string(kind), "error").Inc()
	case ok && entry.Fresh(c.now(), c.ttl):
		var cached []T
		if err := json.Unmarshal(entry.Data, &cached); err == nil {
			metrics.CacheLookups.WithLabelValues(string(kind), "hit").Inc()
			return cached, nil
		}
		c.logger.Warn("cached entry unreadable, reading store", map[string]interface{}{"kind": string(kind)})
		metrics.CacheLookups.WithLabelValues(string(kind), "error").Inc()
	default:
		metrics.CacheLookups.WithLabelValues(string(kind), "miss").Inc()
	}

	fetchedAt := c.now()
	records, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Warn("cache encode failed", map[string]interface{}{"kind": string(kind), "error": err.Error()})
		return records, nil
	}
	if err := c.cache.Save(ctx, kind, cache.Entry{Data: data, FetchedAt: fetchedAt}); err != nil {
		c.logger.Warn("cache save failed", map[string]interface{}{"kind": string(kind), "error": err.Error()})
	}
	return records, nil
}

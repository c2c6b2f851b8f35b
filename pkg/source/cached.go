package source

import (
	"context"
	"log/slog"
	"time"

	"friendsofmonika/masvalidator/pkg/kvcache"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

// CachedFetcher serves text from a kvcache.Store and falls back to the
// wrapped fetcher on a miss. Fetched text is stored for the TTL. Two
// callers missing at once both fetch; the later Set wins.
type CachedFetcher struct {
	inner   Fetcher
	store   kvcache.Store
	ttl     time.Duration
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewCachedFetcher wraps inner with store.
func NewCachedFetcher(inner Fetcher, store kvcache.Store, ttl time.Duration, collector *metrics.Collector, logger *slog.Logger) *CachedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{
		inner:   inner,
		store:   store,
		ttl:     ttl,
		metrics: collector,
		logger:  logger.With("component", "source.cache"),
	}
}

// CacheKey returns the store key for path in repo.
func CacheKey(repo Repo, path string) string {
	return "text_" + repo.String() + ":" + path
}

// FetchText implements Fetcher. Store failures are logged and bypassed;
// fetch failures are returned unchanged and never cached.
func (c *CachedFetcher) FetchText(ctx context.Context, repo Repo, path string) (string, error) {
	key := CacheKey(repo, path)

	text, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}
	c.metrics.RecordCacheLookup("definitions", ok)
	if ok {
		c.logger.Debug("cache hit", "key", key)
		return text, nil
	}

	text, err = c.inner.FetchText(ctx, repo, path)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return text, nil
}

// Invalidate drops the cached text of path in repo.
func (c *CachedFetcher) Invalidate(ctx context.Context, repo Repo, path string) error {
	return c.store.Delete(ctx, CacheKey(repo, path))
}

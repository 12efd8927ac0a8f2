package fetch

import (
	"context"
	"time"

	"go-leadgen-automation/internal/cache"

	"go.uber.org/zap"
)

const pageKeyPrefix = "leadgen:page:"

// CachedFetcher serves pages from a cache before asking the wrapped fetcher.
// Cache failures never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedFetcher(next Fetcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := pageKeyPrefix + url

	var cached string
	err := f.cache.Get(ctx, key, &cached)
	if err == nil {
		f.logger.Debug("cache hit", zap.String("url", url))
		return []byte(cached), nil
	} else if err != cache.ErrNotFound {
		f.logger.Warn("cache error", zap.String("url", url), zap.Error(err))
	}

	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, string(body), f.ttl); err != nil {
		f.logger.Warn("failed to cache page", zap.String("url", url), zap.Error(err))
	}
	return body, nil
}

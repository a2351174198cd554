// Package cache memoizes search provider responses so that repeated lines
// (and the overlapping query variants built for them) do not spend provider
// quota twice.
package cache

import (
	"context"
	"time"

	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/websearch/provider"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
	"go.uber.org/zap"
)

// Cache stores search responses by key.
type Cache interface {
	Get(ctx context.Context, key string) (*types.SearchResponse, bool, error)
	Set(ctx context.Context, key string, resp *types.SearchResponse, ttl time.Duration) error
}

// CachedProvider decorates a provider with a response cache. Only successful
// responses are stored; cache failures are logged and never fail a search.
type CachedProvider struct {
	provider.Provider
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedProvider wraps p with c.
func NewCachedProvider(p provider.Provider, c Cache, ttl time.Duration, lgr *logger.Logger) *CachedProvider {
	if lgr == nil {
		lgr = logger.L()
	}
	return &CachedProvider{
		Provider: p,
		cache:    c,
		ttl:      ttl,
		logger:   lgr.Named("search_cache"),
	}
}

// Search serves req from the cache when possible.
func (p *CachedProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	key := req.CacheKey(p.GetID())
	log := p.logger.WithContext(ctx)

	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		log.Debug("search cache hit", zap.String("query", req.Query))
		cached.Cached = true
		return cached, nil
	}

	resp, err := p.Provider.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, resp, p.ttl); err != nil {
		log.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
	return resp, nil
}

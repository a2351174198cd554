package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
)

// MemoryCache is a process-local, size-bounded cache with a fixed TTL.
// The ttl passed to Set is ignored in favour of the one given at creation.
type MemoryCache struct {
	lru *expirable.LRU[string, types.SearchResponse]
}

// NewMemoryCache creates a cache holding at most size responses for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, types.SearchResponse](size, nil, ttl),
	}
}

// Get returns a copy of the cached response.
func (c *MemoryCache) Get(_ context.Context, key string) (*types.SearchResponse, bool, error) {
	resp, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &resp, true, nil
}

// Set stores a copy of resp.
func (c *MemoryCache) Set(_ context.Context, key string, resp *types.SearchResponse, _ time.Duration) error {
	if resp == nil {
		return nil
	}
	c.lru.Add(key, *resp)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

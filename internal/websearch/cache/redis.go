package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/lyricnote/internal/pkg/redis"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
)

const redisKeyPrefix = "search:"

// RedisCache shares cached responses between processes. Entries are stored
// as JSON under the client's key prefix.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache backed by client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get loads and decodes a cached response.
func (c *RedisCache) Get(ctx context.Context, key string) (*types.SearchResponse, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var resp types.SearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode cached response: %w", err)
	}
	return &resp, true, nil
}

// Set encodes resp and stores it for ttl.
func (c *RedisCache) Set(ctx context.Context, key string, resp *types.SearchResponse, ttl time.Duration) error {
	if resp == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return c.client.Set(ctx, redisKeyPrefix+key, raw, ttl)
}

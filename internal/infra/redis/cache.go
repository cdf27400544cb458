package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// JSONCache 以 JSON 编码存取对象的简单缓存
type JSONCache struct {
	client *redis.Client
	prefix string
}

// NewJSONCache client 为 nil 时所有读取都返回未命中，写入为空操作
func NewJSONCache(client *redis.Client, prefix string) *JSONCache {
	return &JSONCache{client: client, prefix: prefix}
}

func (c *JSONCache) key(k string) string {
	return c.prefix + ":" + k
}

// Get 读取并解码到 dst
func (c *JSONCache) Get(ctx context.Context, k string, dst interface{}) error {
	if c == nil || c.client == nil {
		return ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", k, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode cached %s: %w", k, err)
	}
	return nil
}

// Set 写入并设置过期时间
func (c *JSONCache) Set(ctx context.Context, k string, v interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", k, err)
	}
	return c.client.Set(ctx, c.key(k), raw, ttl).Err()
}

// Delete 删除缓存
func (c *JSONCache) Delete(ctx context.Context, k string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(k)).Err()
}

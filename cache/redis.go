// Package cache memoises listing search pages in Redis.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values under keys scoped to a namespace
// generation, so bumping the generation invalidates every key at once.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Key(ctx context.Context, namespace string, params url.Values) (string, error)
	Invalidate(ctx context.Context, namespace string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func generationKey(namespace string) string {
	return namespace + ":gen"
}

func (c *RedisCache) Key(ctx context.Context, namespace string, params url.Values) (string, error) {
	gen, err := c.client.Get(ctx, generationKey(namespace)).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("read cache generation: %w", err)
	}
	return GenerateQueryCacheKey(fmt.Sprintf("%s:%d", namespace, gen), params), nil
}

func (c *RedisCache) Invalidate(ctx context.Context, namespace string) error {
	return c.client.Incr(ctx, generationKey(namespace)).Err()
}

// GenerateQueryCacheKey hashes the sorted query parameters so that equivalent
// queries share a key regardless of parameter order.
func GenerateQueryCacheKey(prefix string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		values := append([]string(nil), queryParams[k]...)
		sort.Strings(values)
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(strings.Join(values, ","))
	}

	hash := md5.Sum([]byte(builder.String()))
	hashStr := hex.EncodeToString(hash[:])

	return prefix + ":" + hashStr
}

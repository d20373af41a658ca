package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
)

// MemoryCache is the in-process Cache used when Redis is not configured.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generations map[string]int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:     make(map[string][]byte),
		generations: make(map[string]int64),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = data
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Key(ctx context.Context, namespace string, params url.Values) (string, error) {
	c.mu.Lock()
	gen := c.generations[namespace]
	c.mu.Unlock()
	return GenerateQueryCacheKey(fmt.Sprintf("%s:%d", namespace, gen), params), nil
}

// Invalidate drops every entry; stale generations are never read again.
func (c *MemoryCache) Invalidate(ctx context.Context, namespace string) error {
	c.mu.Lock()
	c.generations[namespace]++
	c.entries = make(map[string][]byte)
	c.mu.Unlock()
	return nil
}

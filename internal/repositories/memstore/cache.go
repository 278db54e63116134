package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"office-docflow/internal/repositories"
)

type cacheItem struct {
	value     string
	expiresAt time.Time
}

// Cache - замена Redis для режима без внешних сервисов.
type Cache struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{items: map[string]cacheItem{}, now: time.Now}
}

var _ repositories.CacheRepositoryInterface = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return "", repositories.ErrCacheMiss
	}
	return item.value, nil
}

// Set хранит значение строкой, как это делает Redis. expiration <= 0 - без срока.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}
	item := cacheItem{value: s}
	if expiration > 0 {
		item.expiresAt = c.now().Add(expiration)
	}
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

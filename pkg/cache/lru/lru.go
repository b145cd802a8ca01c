// Package lru is an in memory cache driver with a least recently used
// eviction policy.
package lru

import (
	"context"
	"sort"
	"time"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/quizhub/quizhub/pkg/cache"
)

func init() {
	cache.Register("lru", NewCache)
}

type entry struct {
	val       []byte
	expiresAt time.Time
}

// Cache is a memory cache that uses a LRU cache policy. Expired items are
// dropped when they are read.
type Cache struct {
	cache   *lru.Cache[string, entry]
	onEvict func(key string, value []byte)
	size    int
	now     func() time.Time
}

var _ cache.Cache = (*Cache)(nil)

// WithSize sets the cache size.
func WithSize(s int) cache.Option {
	return func(c cache.Cache) {
		ca := c.(*Cache)
		ca.size = s
	}
}

// WithEvictCallback sets the eviction callback.
func WithEvictCallback(cb func(key string, value []byte)) cache.Option {
	return func(c cache.Cache) {
		ca := c.(*Cache)
		ca.onEvict = cb
	}
}

// NewCache returns a new Cache.
func NewCache(_ context.Context, opts ...cache.Option) (cache.Cache, error) {
	c := &Cache{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.size <= 0 {
		c.size = 1
	}

	var onEvict func(string, entry)
	if c.onEvict != nil {
		onEvict = func(key string, e entry) { c.onEvict(key, e.val) }
	}

	var err error
	c.cache, err = lru.NewWithEvict(c.size, onEvict)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cache) live(key string) (entry, bool) {
	e, ok := c.cache.Peek(key)
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.cache.Remove(key)
		return entry{}, false
	}
	return e, true
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.cache.Remove(key)
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	if _, ok := c.live(key); !ok {
		return nil, false
	}
	e, ok := c.cache.Get(key)
	return e.val, ok
}

// Keys implements cache.Cache.
func (c *Cache) Keys(_ context.Context, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, ':')
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0)
	for _, k := range c.cache.Keys() {
		if _, ok := c.live(k); ok && g.Match(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, val []byte, opts ...cache.ItemOption) error {
	item := cache.NewItem(opts...)
	e := entry{val: val}
	if item.TTL > 0 {
		e.expiresAt = c.now().Add(item.TTL)
	}
	c.cache.Add(key, e)
	return nil
}

// Len implements cache.Cache.
func (c *Cache) Len(_ context.Context) int64 {
	return int64(c.cache.Len())
}

// Contains implements cache.Cache.
func (c *Cache) Contains(_ context.Context, key string) bool {
	_, ok := c.live(key)
	return ok
}

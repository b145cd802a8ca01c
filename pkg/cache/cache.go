// Package cache defines the key value cache used for short lived data such
// as the quiz answer ledger.
package cache

import (
	"context"
	"time"
)

// Item holds per item settings.
type Item struct {
	// TTL is how long the item lives. Zero means forever.
	TTL time.Duration
}

// ItemOption is an option for setting cache items.
type ItemOption func(*Item)

// WithTTL sets the TTL for the cache item.
func WithTTL(ttl time.Duration) ItemOption {
	return func(i *Item) {
		i.TTL = ttl
	}
}

// NewItem applies opts to a new Item.
func NewItem(opts ...ItemOption) Item {
	var i Item
	for _, o := range opts {
		o(&i)
	}
	return i
}

// Option is an option for creating new cache.
type Option func(Cache)

// Cache is a caching interface. Values are opaque bytes so every driver
// stores them the same way.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Set(ctx context.Context, key string, val []byte, opts ...ItemOption) error
	// Keys returns the keys matching the glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Len(ctx context.Context) int64
	Contains(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string)
}

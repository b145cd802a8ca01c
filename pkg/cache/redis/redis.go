// Package redis is a cache driver backed by a Redis server.
package redis

import (
	"context"
	"sort"

	"github.com/quizhub/quizhub/pkg/cache"
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/redis/go-redis/v9"
)

func init() {
	cache.Register("redis", NewCache)
}

// Cache is a Redis cache.
type Cache struct {
	client *redis.Client
}

var _ cache.Cache = (*Cache)(nil)

// NewCache returns a new Redis cache using the Redis settings of the config
// in ctx.
func NewCache(ctx context.Context, _ ...cache.Option) (cache.Cache, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Username: cfg.Cache.Redis.Username,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	return &Cache{
		client: client,
	}, client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *Cache) Close() error {
	return r.client.Close()
}

// Contains implements cache.Cache.
func (r *Cache) Contains(ctx context.Context, key string) bool {
	return r.client.Exists(ctx, key).Val() == 1
}

// Delete implements cache.Cache.
func (r *Cache) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, key)
}

// Get implements cache.Cache.
func (r *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	return val, true
}

// Keys implements cache.Cache.
func (r *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Len implements cache.Cache.
func (r *Cache) Len(ctx context.Context) int64 {
	return r.client.DBSize(ctx).Val()
}

// Set implements cache.Cache.
func (r *Cache) Set(ctx context.Context, key string, val []byte, opts ...cache.ItemOption) error {
	item := cache.NewItem(opts...)
	return r.client.Set(ctx, key, val, item.TTL).Err()
}

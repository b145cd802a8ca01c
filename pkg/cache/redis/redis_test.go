package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/cache"
	"github.com/quizhub/quizhub/pkg/config"
)

// Set QUIZHUB_TEST_REDIS_ADDR to run against a live server.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("QUIZHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUIZHUB_TEST_REDIS_ADDR not set")
	}

	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Cache.Redis.Addr = addr
	ctx := config.WithContext(context.TODO(), cfg)
	c, err := cache.New(ctx, "redis")
	is.NoErr(err)
	t.Cleanup(func() { _ = c.(*Cache).Close() })

	is.NoErr(c.Set(ctx, "quizhub:test:1", []byte("one"), cache.WithTTL(time.Minute)))
	v, ok := c.Get(ctx, "quizhub:test:1")
	is.True(ok)
	is.Equal(string(v), "one")

	keys, err := c.Keys(ctx, "quizhub:test:*")
	is.NoErr(err)
	is.Equal(keys, []string{"quizhub:test:1"})

	c.Delete(ctx, "quizhub:test:1")
	is.True(!c.Contains(ctx, "quizhub:test:1"))
}

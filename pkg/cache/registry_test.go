package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/cache"
	_ "github.com/quizhub/quizhub/pkg/cache/noop"
)

func TestNewUnknown(t *testing.T) {
	is := is.New(t)
	_, err := cache.New(context.TODO(), "memcached")
	is.Equal(err, cache.ErrCacheNotFound)
}

func TestContext(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	is.True(cache.FromContext(ctx) == nil)

	c, err := cache.New(ctx, "noop")
	is.NoErr(err)
	ctx = cache.WithContext(ctx, c)
	is.True(cache.FromContext(ctx) != nil)
	is.Equal(c.Len(ctx), int64(-1))
}

func TestNewItem(t *testing.T) {
	is := is.New(t)
	is.Equal(cache.NewItem().TTL, time.Duration(0))
	is.Equal(cache.NewItem(cache.WithTTL(time.Hour)).TTL, time.Hour)
}

package lru

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/cache"
)

func TestSetGet(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	c, err := cache.New(ctx, "lru", WithSize(10))
	is.NoErr(err)

	is.NoErr(c.Set(ctx, "result:1:2:3:4", []byte(`{"a":1}`)))
	v, ok := c.Get(ctx, "result:1:2:3:4")
	is.True(ok)
	is.Equal(string(v), `{"a":1}`)
	is.True(c.Contains(ctx, "result:1:2:3:4"))
	is.Equal(c.Len(ctx), int64(1))

	c.Delete(ctx, "result:1:2:3:4")
	_, ok = c.Get(ctx, "result:1:2:3:4")
	is.True(!ok)
}

func TestKeysPattern(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	c, err := NewCache(ctx, WithSize(10))
	is.NoErr(err)

	for _, k := range []string{"result:1:2:3:4", "result:1:5:3:6", "result:2:2:3:7", "other"} {
		is.NoErr(c.Set(ctx, k, []byte("x")))
	}

	keys, err := c.Keys(ctx, "result:1:*:*:*")
	is.NoErr(err)
	is.Equal(keys, []string{"result:1:2:3:4", "result:1:5:3:6"})

	keys, err = c.Keys(ctx, "result:*:2:*:*")
	is.NoErr(err)
	is.Equal(keys, []string{"result:1:2:3:4", "result:2:2:3:7"})
}

func TestTTL(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	cc, err := NewCache(ctx, WithSize(10))
	is.NoErr(err)
	c := cc.(*Cache)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	is.NoErr(c.Set(ctx, "short", []byte("x"), cache.WithTTL(time.Hour)))
	is.NoErr(c.Set(ctx, "forever", []byte("y")))

	now = now.Add(2 * time.Hour)
	is.True(!c.Contains(ctx, "short"))
	_, ok := c.Get(ctx, "short")
	is.True(!ok)
	keys, err := c.Keys(ctx, "*")
	is.NoErr(err)
	is.Equal(keys, []string{"forever"})
}

func TestEviction(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	var evicted []string
	c, err := NewCache(ctx, WithSize(1), WithEvictCallback(func(key string, _ []byte) {
		evicted = append(evicted, key)
	}))
	is.NoErr(err)
	is.NoErr(c.Set(ctx, "a", []byte("1")))
	is.NoErr(c.Set(ctx, "b", []byte("2")))
	is.Equal(evicted, []string{"a"})
}

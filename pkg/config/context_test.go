package config

import (
	"context"
	"testing"

	"github.com/matryer/is"
)

func TestFromContextMissing(t *testing.T) {
	is := is.New(t)
	is.True(FromContext(context.TODO()) == nil)
}

func TestFromContext(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Name = "Quiz Night"
	ctx := WithContext(context.TODO(), cfg)

	got := FromContext(ctx)
	is.True(got == cfg)
	is.Equal(got.Name, "Quiz Night")
	is.Equal(got.Cache.Driver, "lru")
}

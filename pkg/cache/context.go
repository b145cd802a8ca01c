package cache

import "context"

type contextKey struct{}

// WithContext stores c in ctx. A nil cache leaves ctx unchanged.
func WithContext(ctx context.Context, c Cache) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the cache stored in ctx, or nil.
func FromContext(ctx context.Context) Cache {
	c, _ := ctx.Value(contextKey{}).(Cache)
	return c
}

package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/quizhub/quizhub/pkg/db"
)

// RequestIDHeader is the header carrying the request id.
const RequestIDHeader = "X-Request-ID"

var contextKeyRequestID = &struct{ string }{"request-id"}

// RequestIDFromContext returns the request id from the context.
func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(contextKeyRequestID).(string)
	return rid
}

// NewContextHandler returns a new context middleware.
// This middleware adds the config, backend, database, request id, and logger
// to the request context.
func NewContextHandler(ctx context.Context) func(http.Handler) http.Handler {
	cfg := config.FromContext(ctx)
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("http")
	dbx := db.FromContext(ctx)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rid)

			ctx := r.Context()
			ctx = context.WithValue(ctx, contextKeyRequestID, rid)
			ctx = config.WithContext(ctx, cfg)
			ctx = backend.WithContext(ctx, be)
			ctx = log.WithContext(ctx, logger.With(
				"method", r.Method,
				"path", r.URL,
				"addr", r.RemoteAddr,
				"request_id", rid,
			))
			ctx = db.WithContext(ctx, dbx)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		})
	}
}

// Package web serves the QuizHub JSON API.
package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/config"
)

// NewRouter returns a new HTTP router.
func NewRouter(ctx context.Context) http.Handler {
	logger := log.FromContext(ctx).WithPrefix("http")
	router := mux.NewRouter()

	HealthController(ctx, router)
	UserController(ctx, router)
	CompanyController(ctx, router)
	QuizController(ctx, router)
	ExportController(ctx, router)
	NotificationController(ctx, router)

	router.NotFoundHandler = http.HandlerFunc(renderNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(renderMethodNotAllowed)

	// The context handler runs first so the logging middleware sees the
	// request id.
	h := NewLoggingMiddleware(router, logger)
	h = NewContextHandler(ctx)(h)
	h = handlers.CompressHandler(h)
	if cfg := config.FromContext(ctx); cfg != nil && len(cfg.HTTP.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(cfg.HTTP.CORSOrigins),
			handlers.AllowedMethods([]string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader}),
			handlers.ExposedHeaders([]string{RequestIDHeader, "Content-Disposition"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger}))(h)

	return h
}

// recoveryLogger adapts the logger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	*log.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.Logger.Error("panic", "err", v)
}

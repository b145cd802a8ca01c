package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db"
)

// HealthController registers the health check and key set routes for the
// web server.
func HealthController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/livez", getLiveness)
	r.HandleFunc("/readyz", getReadiness)
	r.HandleFunc("/.well-known/jwks.json", getJWKS).Methods(http.MethodGet)
}

func getLiveness(w http.ResponseWriter, _ *http.Request) {
	renderStatus(http.StatusOK)(w, nil)
}

func getReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	db := db.FromContext(ctx)

	errs := make([]error, 0)
	if db == nil {
		errs = append(errs, fmt.Errorf("readiness check failed: no database"))
	} else if err := db.PingContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("readiness check failed: %w", err))
	}

	if len(errs) > 0 {
		log.FromContext(ctx).Warn("not ready", "errs", errs)
		renderStatus(http.StatusServiceUnavailable)(w, nil)
		return
	}

	renderStatus(http.StatusOK)(w, nil)
}

func getJWKS(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	renderJSON(w, http.StatusOK, be.KeySet())
}

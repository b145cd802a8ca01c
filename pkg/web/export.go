package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/export"
	"github.com/quizhub/quizhub/pkg/proto"
)

// ExportController registers the quiz answer export routes.
func ExportController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/export/me", withAuth(exportMine)).Methods(http.MethodGet)
	r.HandleFunc("/export/companies/{id:[0-9]+}", withAuth(exportCompany)).Methods(http.MethodGet)
	r.HandleFunc("/export/companies/{id:[0-9]+}/users/{user:[0-9]+}", withAuth(exportMember)).Methods(http.MethodGet)
}

// renderExport writes records as a file download in the requested format.
func renderExport(w http.ResponseWriter, r *http.Request, records []export.Record) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		renderError(w, r, proto.Invalid("%v", err))
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename()))
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, f, records); err != nil {
		log.FromContext(r.Context()).Error("error writing export", "format", f, "err", err)
	}
}

func exportMine(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	records, err := be.ExportMine(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderExport(w, r, records)
}

func exportCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	records, err := be.ExportCompany(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderExport(w, r, records)
}

func exportMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}
	user, err := pathID(r, "user")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	records, err := be.ExportMember(r.Context(), caller(r), id, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderExport(w, r, records)
}

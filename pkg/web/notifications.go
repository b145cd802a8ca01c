package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
)

// NotificationController registers the notification routes.
func NotificationController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/notifications", withAuth(listNotifications)).Methods(http.MethodGet)
	r.HandleFunc("/notifications/read", withAuth(readAllNotifications)).Methods(http.MethodPost)
	r.HandleFunc("/notifications/{id:[0-9]+}/read", withAuth(readNotification)).Methods(http.MethodPost)
}

func listNotifications(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	ns, err := be.Notifications(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Text:      n.Text,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	renderJSON(w, http.StatusOK, out)
}

func readNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.ReadNotification(r.Context(), caller(r), id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

func readAllNotifications(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	if err := be.ReadAllNotifications(r.Context(), caller(r)); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

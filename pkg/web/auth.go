package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
)

// contextKeyUser is the context key for the authenticated user.
var contextKeyUser = &struct{ string }{"user"}

// UserFromContext returns the authenticated user from the context.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(contextKeyUser).(models.User)
	return u, ok
}

// WithUserContext returns a new context with the authenticated user.
func WithUserContext(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, contextKeyUser, u)
}

// authenticate authenticates the user from the request.
func authenticate(r *http.Request) (models.User, error) {
	ctx := r.Context()
	header := r.Header.Get("Authorization")
	if header == "" {
		return models.User{}, proto.Unauthenticated("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return models.User{}, proto.Unauthenticated("invalid authorization header")
	}

	be := backend.FromContext(ctx)
	return be.Authenticate(ctx, strings.TrimSpace(parts[1]))
}

// withAuth requires a valid bearer token and stores its user in the request
// context.
func withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticate(r)
		if err != nil {
			renderError(w, r, err)
			return
		}

		ctx := WithUserContext(r.Context(), user)
		ctx = log.WithContext(ctx, log.FromContext(ctx).With("user", user.Username))
		next(w, r.WithContext(ctx))
	}
}

// caller returns the authenticated user's id. It must only be used behind
// withAuth.
func caller(r *http.Request) int64 {
	u, _ := UserFromContext(r.Context())
	return u.ID
}

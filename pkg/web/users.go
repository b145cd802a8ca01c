package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"omitempty,max=50"`
	Password string `json:"password" validate:"omitempty,min=6,max=128"`
}

// UserController registers the identity and user routes.
func UserController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/auth/register", register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", withAuth(getMe)).Methods(http.MethodGet)

	r.HandleFunc("/users", withAuth(listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/users/me", withAuth(updateMe)).Methods(http.MethodPatch)
	r.HandleFunc("/users/me", withAuth(deleteMe)).Methods(http.MethodDelete)
	r.HandleFunc("/users/me/invites", withAuth(myInvites)).Methods(http.MethodGet)
	r.HandleFunc("/users/me/requests", withAuth(myRequests)).Methods(http.MethodGet)
	r.HandleFunc("/users/me/rating", withAuth(globalRating)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", withAuth(getUser)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", withAuth(deleteUser)).Methods(http.MethodDelete)
}

func register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	u, err := be.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newUser(u))
}

func login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	token, err := be.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func getMe(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	renderJSON(w, http.StatusOK, newUser(u))
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	us, err := be.Users(r.Context(), page)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, newUser(u))
	}
	renderJSON(w, http.StatusOK, out)
}

func getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	u, err := be.UserByID(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newUser(u))
}

func updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	id := caller(r)
	u, err := be.UpdateUser(r.Context(), id, id, req.Username, req.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newUser(u))
}

func deleteMe(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	id := caller(r)
	if err := be.DeleteUser(r.Context(), id, id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

// deleteUser lets site admins remove other accounts.
func deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteUser(r.Context(), caller(r), id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

func myInvites(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	es, err := be.MyInvites(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newActionEntries(es))
}

func myRequests(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	es, err := be.MyRequests(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newActionEntries(es))
}

func globalRating(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	rating, err := be.GlobalRating(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, ratingResponse{Rating: rating})
}

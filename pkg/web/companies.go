package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db/models"
)

type createCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Visible     *bool  `json:"visible"`
}

type updateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Visible     *bool   `json:"visible"`
}

type inviteRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// CompanyController registers the company and membership routes.
func CompanyController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/companies", withAuth(createCompany)).Methods(http.MethodPost)
	r.HandleFunc("/companies", withAuth(listCompanies)).Methods(http.MethodGet)

	r.HandleFunc("/companies/{id:[0-9]+}", withAuth(getCompany)).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id:[0-9]+}", withAuth(updateCompany)).Methods(http.MethodPatch)
	r.HandleFunc("/companies/{id:[0-9]+}", withAuth(deleteCompany)).Methods(http.MethodDelete)

	c := r.PathPrefix("/companies/{id:[0-9]+}").Subrouter()
	c.HandleFunc("/invites", withAuth(createInvite)).Methods(http.MethodPost)
	c.HandleFunc("/invites", withAuth(companyInvites)).Methods(http.MethodGet)
	c.HandleFunc("/requests", withAuth(createRequest)).Methods(http.MethodPost)
	c.HandleFunc("/requests", withAuth(companyRequests)).Methods(http.MethodGet)
	c.HandleFunc("/members", withAuth(companyMembers)).Methods(http.MethodGet)
	c.HandleFunc("/members/me", withAuth(leaveCompany)).Methods(http.MethodDelete)
	c.HandleFunc("/members/{user:[0-9]+}", withAuth(kickMember)).Methods(http.MethodDelete)
	c.HandleFunc("/admins", withAuth(companyAdmins)).Methods(http.MethodGet)
	c.HandleFunc("/admins/{user:[0-9]+}", withAuth(addAdmin)).Methods(http.MethodPut)
	c.HandleFunc("/admins/{user:[0-9]+}", withAuth(removeAdmin)).Methods(http.MethodDelete)
	c.HandleFunc("/rating", withAuth(companyRating)).Methods(http.MethodGet)

	r.HandleFunc("/invites/{action:[0-9]+}", withAuth(answer((*backend.Backend).CancelInvite))).Methods(http.MethodDelete)
	r.HandleFunc("/invites/{action:[0-9]+}/accept", withAuth(answer((*backend.Backend).AcceptInvite))).Methods(http.MethodPost)
	r.HandleFunc("/invites/{action:[0-9]+}/decline", withAuth(answer((*backend.Backend).DeclineInvite))).Methods(http.MethodPost)
	r.HandleFunc("/requests/{action:[0-9]+}", withAuth(answer((*backend.Backend).CancelRequest))).Methods(http.MethodDelete)
	r.HandleFunc("/requests/{action:[0-9]+}/accept", withAuth(answer((*backend.Backend).AcceptRequest))).Methods(http.MethodPost)
	r.HandleFunc("/requests/{action:[0-9]+}/decline", withAuth(answer((*backend.Backend).DeclineRequest))).Methods(http.MethodPost)
}

func createCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	be := backend.FromContext(r.Context())
	c, err := be.CreateCompany(r.Context(), caller(r), req.Name, req.Description, visible)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newCompany(c))
}

func listCompanies(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	cs, err := be.Companies(r.Context(), caller(r), page)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]companyResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, newCompany(c))
	}
	renderJSON(w, http.StatusOK, out)
}

func getCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	c, err := be.Company(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newCompany(c))
}

func updateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req updateCompanyRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	ctx := r.Context()
	be := backend.FromContext(ctx)
	c, err := be.Company(ctx, caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Visible != nil {
		c.Visible = *req.Visible
	}

	c, err = be.UpdateCompany(ctx, caller(r), id, c.Name, c.Description, c.Visible)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newCompany(c))
}

func deleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteCompany(r.Context(), caller(r), id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

func createInvite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req inviteRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	a, err := be.CreateInvite(r.Context(), caller(r), id, req.UserID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newAction(a))
}

func createRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	a, err := be.CreateRequest(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newAction(a))
}

// answer returns a handler that applies fn to the action in the path.
func answer(fn func(*backend.Backend, context.Context, int64, int64) (models.Action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "action")
		if err != nil {
			renderError(w, r, err)
			return
		}

		be := backend.FromContext(r.Context())
		a, err := fn(be, r.Context(), caller(r), id)
		if err != nil {
			renderError(w, r, err)
			return
		}

		renderJSON(w, http.StatusOK, newAction(a))
	}
}

// listEntries returns a handler rendering the action entries fn lists for
// the company in the path.
func listEntries(fn func(*backend.Backend, context.Context, int64, int64) ([]models.ActionEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			renderError(w, r, err)
			return
		}

		be := backend.FromContext(r.Context())
		es, err := fn(be, r.Context(), caller(r), id)
		if err != nil {
			renderError(w, r, err)
			return
		}

		renderJSON(w, http.StatusOK, newActionEntries(es))
	}
}

var (
	companyInvites  = listEntries((*backend.Backend).CompanyInvites)
	companyRequests = listEntries((*backend.Backend).CompanyRequests)
)

func listMembers(fn func(*backend.Backend, context.Context, int64, int64) ([]models.MemberEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			renderError(w, r, err)
			return
		}

		be := backend.FromContext(r.Context())
		ms, err := fn(be, r.Context(), caller(r), id)
		if err != nil {
			renderError(w, r, err)
			return
		}

		renderJSON(w, http.StatusOK, newMembers(ms))
	}
}

var (
	companyMembers = listMembers((*backend.Backend).CompanyMembers)
	companyAdmins  = listMembers((*backend.Backend).CompanyAdmins)
)

func leaveCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.LeaveCompany(r.Context(), caller(r), id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

// memberOp returns a handler that applies fn to the company and user in the
// path.
func memberOp(fn func(*backend.Backend, context.Context, int64, int64, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		if err := fn(be, r.Context(), caller(r), id, user); err != nil {
			renderError(w, r, err)
			return
		}

		renderNoContent(w)
	}
}

var (
	kickMember  = memberOp((*backend.Backend).KickMember)
	addAdmin    = memberOp((*backend.Backend).AddAdmin)
	removeAdmin = memberOp((*backend.Backend).RemoveAdmin)
)

func companyRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	rating, err := be.CompanyRating(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, ratingResponse{Rating: rating})
}

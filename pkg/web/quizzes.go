package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/proto"
)

type questionRequest struct {
	Text           string   `json:"text" validate:"required,max=500"`
	Options        []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswers []string `json:"correct_answers" validate:"min=1,dive,required"`
}

type quizRequest struct {
	Name          string            `json:"name" validate:"required,max=100"`
	Description   string            `json:"description" validate:"max=1000"`
	FrequencyDays int               `json:"frequency_days" validate:"gte=1"`
	Questions     []questionRequest `json:"questions" validate:"min=2,dive"`
}

func (q quizRequest) input() backend.QuizInput {
	in := backend.QuizInput{
		Name:          q.Name,
		Description:   q.Description,
		FrequencyDays: q.FrequencyDays,
		Questions:     make([]backend.QuestionInput, 0, len(q.Questions)),
	}
	for _, qq := range q.Questions {
		in.Questions = append(in.Questions, backend.QuestionInput(qq))
	}
	return in
}

// submitRequest maps question ids to the chosen options.
type submitRequest struct {
	Answers map[string][]string `json:"answers" validate:"required"`
}

// QuizController registers the quiz, result, and analytics routes.
func QuizController(_ context.Context, r *mux.Router) {
	r.HandleFunc("/companies/{id:[0-9]+}/quizzes", withAuth(createQuiz)).Methods(http.MethodPost)
	r.HandleFunc("/companies/{id:[0-9]+}/quizzes", withAuth(listQuizzes)).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{id:[0-9]+}", withAuth(getQuiz)).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{id:[0-9]+}", withAuth(updateQuiz)).Methods(http.MethodPut)
	r.HandleFunc("/quizzes/{id:[0-9]+}", withAuth(deleteQuiz)).Methods(http.MethodDelete)
	r.HandleFunc("/quizzes/{id:[0-9]+}/results", withAuth(submitResult)).Methods(http.MethodPost)

	a := r.PathPrefix("/analytics").Subrouter()
	a.HandleFunc("/quizzes/{id:[0-9]+}", withAuth(quizResults)).Methods(http.MethodGet)
	a.HandleFunc("/latest", withAuth(latestResults)).Methods(http.MethodGet)
	a.HandleFunc("/companies/{id:[0-9]+}/members", withAuth(memberAverages)).Methods(http.MethodGet)
	a.HandleFunc("/companies/{id:[0-9]+}/members/{user:[0-9]+}", withAuth(memberResults)).Methods(http.MethodGet)
	a.HandleFunc("/companies/{id:[0-9]+}/last", withAuth(lastResults)).Methods(http.MethodGet)
}

func createQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req quizRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	q, err := be.CreateQuiz(r.Context(), caller(r), id, req.input())
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newQuizWithQuestions(q))
}

func listQuizzes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}
	page, err := pageQuery(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	qs, err := be.Quizzes(r.Context(), caller(r), id, page)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]quizResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, newQuiz(q))
	}
	renderJSON(w, http.StatusOK, out)
}

func getQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	q, err := be.Quiz(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newQuizWithQuestions(q))
}

func updateQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req quizRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	q, err := be.UpdateQuiz(r.Context(), caller(r), id, req.input())
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newQuizWithQuestions(q))
}

func deleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	if err := be.DeleteQuiz(r.Context(), caller(r), id); err != nil {
		renderError(w, r, err)
		return
	}

	renderNoContent(w)
}

func submitResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req submitRequest
	if err := decode(r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	answers := make(map[int64][]string, len(req.Answers))
	for k, v := range req.Answers {
		qid, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			renderError(w, r, proto.Invalid("invalid question id %q", k))
			return
		}
		answers[qid] = v
	}

	be := backend.FromContext(r.Context())
	res, err := be.SubmitResult(r.Context(), caller(r), id, answers)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, newResult(res))
}

func quizResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	rs, err := be.QuizResults(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newMemberResults(rs))
}

func latestResults(w http.ResponseWriter, r *http.Request) {
	be := backend.FromContext(r.Context())
	rs, err := be.LatestResults(r.Context(), caller(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newMemberResults(rs))
}

func memberAverages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	as, err := be.MemberAverages(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]averageResponse, 0, len(as))
	for _, a := range as {
		out = append(out, averageResponse(a))
	}
	renderJSON(w, http.StatusOK, out)
}

func memberResults(w http.ResponseWriter, r *http.Request) {
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
	rs, err := be.MemberResults(r.Context(), caller(r), id, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, newMemberResults(rs))
}

func lastResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		renderError(w, r, err)
		return
	}

	be := backend.FromContext(r.Context())
	ls, err := be.LastResults(r.Context(), caller(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	out := make([]lastResultResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, lastResultResponse(l))
	}
	renderJSON(w, http.StatusOK, out)
}

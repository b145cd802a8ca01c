package web

import (
	"time"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/membership"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func newUser(m models.User) userResponse {
	return userResponse{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
	}
}

type companyResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newCompany(m models.Company) companyResponse {
	return companyResponse{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		Visible:     m.Visible,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type actionResponse struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	CompanyID int64             `json:"company_id"`
	Status    membership.Status `json:"status"`
	Type      membership.Type   `json:"type"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newAction(m models.Action) actionResponse {
	return actionResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Status:    m.Status,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type actionEntryResponse struct {
	ActionID  int64  `json:"action_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	CompanyID int64  `json:"company_id"`
}

func newActionEntries(es []models.ActionEntry) []actionEntryResponse {
	out := make([]actionEntryResponse, 0, len(es))
	for _, e := range es {
		out = append(out, actionEntryResponse(e))
	}
	return out
}

type memberResponse struct {
	ActionID *int64      `json:"action_id"`
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     access.Role `json:"role"`
}

func newMembers(es []models.MemberEntry) []memberResponse {
	out := make([]memberResponse, 0, len(es))
	for _, e := range es {
		m := memberResponse{UserID: e.UserID, Username: e.Username, Role: e.Role}
		if e.ActionID.Valid {
			id := e.ActionID.Int64
			m.ActionID = &id
		}
		out = append(out, m)
	}
	return out
}

type questionResponse struct {
	ID             int64    `json:"id"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`
}

type quizResponse struct {
	ID            int64              `json:"id"`
	CompanyID     int64              `json:"company_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	FrequencyDays int                `json:"frequency_days"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Questions     []questionResponse `json:"questions,omitempty"`
}

func newQuiz(m models.Quiz) quizResponse {
	return quizResponse{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		Description:   m.Description,
		FrequencyDays: m.FrequencyDays,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func newQuizWithQuestions(q backend.Quiz) quizResponse {
	r := newQuiz(q.Quiz)
	r.Questions = make([]questionResponse, 0, len(q.Questions))
	for _, qq := range q.Questions {
		r.Questions = append(r.Questions, questionResponse{
			ID:             qq.ID,
			Text:           qq.Text,
			Options:        []string(qq.Options),
			CorrectAnswers: []string(qq.CorrectAnswers),
		})
	}
	return r
}

type resultResponse struct {
	ID             int64     `json:"id"`
	QuizID         int64     `json:"quiz_id"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	CreatedAt      time.Time `json:"created_at"`
}

func newResult(m models.Result) resultResponse {
	return resultResponse{
		ID:             m.ID,
		QuizID:         m.QuizID,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		CorrectAnswers: m.CorrectAnswers,
		CreatedAt:      m.CreatedAt,
	}
}

type memberResultResponse struct {
	resultResponse
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	QuizName  string `json:"quiz_name"`
}

func newMemberResults(rs []models.MemberResult) []memberResultResponse {
	out := make([]memberResultResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, memberResultResponse{
			resultResponse: newResult(r.Result),
			UserID:         r.UserID,
			CompanyID:      r.CompanyID,
			QuizName:       r.QuizName,
		})
	}
	return out
}

type averageResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type lastResultResponse struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	LastAt   time.Time `json:"last_at"`
}

type ratingResponse struct {
	Rating float64 `json:"rating"`
}

type notificationResponse struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

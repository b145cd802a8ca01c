package store

import (
	"context"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
)

// QuizStore is an interface for managing quizzes and their questions.
type QuizStore interface {
	CreateQuiz(ctx context.Context, h db.Handler, company int64, name, description string, frequencyDays int) (models.Quiz, error)
	GetQuizByID(ctx context.Context, h db.Handler, id int64) (models.Quiz, error)
	ListQuizzes(ctx context.Context, h db.Handler, company int64, page Page) ([]models.Quiz, error)
	UpdateQuiz(ctx context.Context, h db.Handler, id int64, name, description string, frequencyDays int) error
	DeleteQuizByID(ctx context.Context, h db.Handler, id int64) error

	AddQuestion(ctx context.Context, h db.Handler, quiz int64, text string, options, correct []string) (models.Question, error)
	ListQuestions(ctx context.Context, h db.Handler, quiz int64) ([]models.Question, error)
	DeleteQuestions(ctx context.Context, h db.Handler, quiz int64) error
}

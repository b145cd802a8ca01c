package database

import (
	"context"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
)

type quizStore struct{}

var _ store.QuizStore = (*quizStore)(nil)

// CreateQuiz implements store.QuizStore.
func (s *quizStore) CreateQuiz(ctx context.Context, h db.Handler, company int64, name, description string, frequencyDays int) (models.Quiz, error) {
	query := h.Rebind(`
		INSERT INTO
		  quizzes (company_id, name, description, frequency_days, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, company, name, description, frequencyDays); err != nil {
		return models.Quiz{}, err
	}

	return s.GetQuizByID(ctx, h, id)
}

// GetQuizByID implements store.QuizStore.
func (*quizStore) GetQuizByID(ctx context.Context, h db.Handler, id int64) (models.Quiz, error) {
	var m models.Quiz
	query := h.Rebind(`SELECT * FROM quizzes WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// ListQuizzes implements store.QuizStore.
func (*quizStore) ListQuizzes(ctx context.Context, h db.Handler, company int64, page store.Page) ([]models.Quiz, error) {
	page = page.Normalize()
	var ms []models.Quiz
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  quizzes
		WHERE
		  company_id = ?
		ORDER BY
		  id
		LIMIT ? OFFSET ?;
	`)
	err := h.SelectContext(ctx, &ms, query, company, page.Limit, page.Offset)
	return ms, err
}

// UpdateQuiz implements store.QuizStore.
func (*quizStore) UpdateQuiz(ctx context.Context, h db.Handler, id int64, name, description string, frequencyDays int) error {
	query := h.Rebind(`
		UPDATE quizzes
		SET
		  name = ?,
		  description = ?,
		  frequency_days = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	return checkAffected(h.ExecContext(ctx, query, name, description, frequencyDays, id))
}

// DeleteQuizByID implements store.QuizStore.
func (s *quizStore) DeleteQuizByID(ctx context.Context, h db.Handler, id int64) error {
	if _, err := h.ExecContext(ctx, h.Rebind(`DELETE FROM results WHERE quiz_id = ?;`), id); err != nil {
		return err
	}
	if err := s.DeleteQuestions(ctx, h, id); err != nil {
		return err
	}
	query := h.Rebind(`DELETE FROM quizzes WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, id))
}

// AddQuestion implements store.QuizStore.
func (*quizStore) AddQuestion(ctx context.Context, h db.Handler, quiz int64, text string, options, correct []string) (models.Question, error) {
	query := h.Rebind(`
		INSERT INTO
		  questions (quiz_id, text, options, correct_answers)
		VALUES
		  (?, ?, ?, ?) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, quiz, text, models.StringList(options), models.StringList(correct)); err != nil {
		return models.Question{}, err
	}

	return models.Question{
		ID:             id,
		QuizID:         quiz,
		Text:           text,
		Options:        options,
		CorrectAnswers: correct,
	}, nil
}

// ListQuestions implements store.QuizStore.
func (*quizStore) ListQuestions(ctx context.Context, h db.Handler, quiz int64) ([]models.Question, error) {
	var ms []models.Question
	query := h.Rebind(`SELECT * FROM questions WHERE quiz_id = ? ORDER BY id;`)
	err := h.SelectContext(ctx, &ms, query, quiz)
	return ms, err
}

// DeleteQuestions implements store.QuizStore.
func (*quizStore) DeleteQuestions(ctx context.Context, h db.Handler, quiz int64) error {
	query := h.Rebind(`DELETE FROM questions WHERE quiz_id = ?;`)
	_, err := h.ExecContext(ctx, query, quiz)
	return err
}

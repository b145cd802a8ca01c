package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/stats"
	"github.com/quizhub/quizhub/pkg/store"
)

// QuestionInput is a question of a new or updated quiz.
type QuestionInput struct {
	Text           string
	Options        []string
	CorrectAnswers []string
}

// QuizInput describes a new or updated quiz.
type QuizInput struct {
	Name          string
	Description   string
	FrequencyDays int
	Questions     []QuestionInput
}

// Quiz is a quiz with its questions.
type Quiz struct {
	models.Quiz
	Questions []models.Question
}

// Validate checks that the quiz has at least two questions, each with at
// least two options and a non-empty set of correct answers drawn from them.
func (in QuizInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return proto.Invalid("quiz name is required")
	}
	if in.FrequencyDays < 1 {
		return proto.Invalid("quiz frequency must be at least one day")
	}
	if len(in.Questions) < 2 {
		return proto.Invalid("a quiz needs at least 2 questions")
	}

	for i, q := range in.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return proto.Invalid("question %d has no text", i+1)
		}
		if len(q.Options) < 2 {
			return proto.Invalid("question %d needs at least 2 options", i+1)
		}
		if len(q.CorrectAnswers) == 0 {
			return proto.Invalid("question %d needs at least one correct answer", i+1)
		}

		opts := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			opts[o] = struct{}{}
		}
		for _, a := range q.CorrectAnswers {
			if _, ok := opts[a]; !ok {
				return proto.Invalid("question %d: correct answer %q is not an option", i+1, a)
			}
		}
	}

	return nil
}

func newQuizText(company, quiz string) string {
	return fmt.Sprintf("In %s company, a new quiz '%s' has been created. Take it now!", company, quiz)
}

// quiz returns the quiz id or proto.ErrQuizNotFound.
func (d *Backend) quiz(ctx context.Context, h db.Handler, id int64) (models.Quiz, error) {
	q, err := d.store.GetQuizByID(ctx, h, id)
	if err != nil {
		return models.Quiz{}, notFound(err, proto.ErrQuizNotFound)
	}
	return q, nil
}

func (d *Backend) addQuestions(ctx context.Context, tx *db.Tx, quiz int64, qs []QuestionInput) ([]models.Question, error) {
	out := make([]models.Question, 0, len(qs))
	for _, q := range qs {
		m, err := d.store.AddQuestion(ctx, tx, quiz, q.Text, q.Options, q.CorrectAnswers)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CreateQuiz creates a quiz in company and notifies every other member.
func (d *Backend) CreateQuiz(ctx context.Context, caller, company int64, in QuizInput) (Quiz, error) {
	var q Quiz
	var notified int
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		c, err := d.company(ctx, tx, company)
		if err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.ManageQuizzes) {
			return proto.ErrNotPermitted
		}
		if err := in.Validate(); err != nil {
			return err
		}

		q.Quiz, err = d.store.CreateQuiz(ctx, tx, company, in.Name, in.Description, in.FrequencyDays)
		if err != nil {
			return err
		}
		q.Questions, err = d.addQuestions(ctx, tx, q.ID, in.Questions)
		if err != nil {
			return err
		}

		members, err := d.store.ListCompanyMembers(ctx, tx, company)
		if err != nil {
			return err
		}
		text := newQuizText(c.Name, q.Name)
		now := d.now()
		for _, m := range members {
			if m.UserID == caller {
				continue
			}
			if err := d.store.CreateNotification(ctx, tx, m.UserID, text, now); err != nil {
				return err
			}
			notified++
		}

		return nil
	})
	if err != nil {
		return Quiz{}, d.txError(err, "creating quiz", "company", company)
	}

	stats.NotificationsCreated.WithLabelValues("new-quiz").Add(float64(notified))
	d.logger.Info("quiz created", "id", q.ID, "company", company, "notified", notified)
	return q, nil
}

// Quiz returns a quiz with its questions. Correct answers are only shown to
// members who manage quizzes.
func (d *Backend) Quiz(ctx context.Context, caller, id int64) (Quiz, error) {
	var q Quiz
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		q.Quiz, err = d.quiz(ctx, tx, id)
		if err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, q.CompanyID, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.TakeQuizzes) {
			return proto.ErrNotMember
		}

		q.Questions, err = d.store.ListQuestions(ctx, tx, id)
		if err != nil {
			return err
		}
		if !caps.Has(access.ManageQuizzes) {
			for i := range q.Questions {
				q.Questions[i].CorrectAnswers = nil
			}
		}

		return nil
	})
	if err != nil {
		return Quiz{}, d.txError(err, "getting quiz", "id", id)
	}

	return q, nil
}

// Quizzes lists the quizzes of company.
func (d *Backend) Quizzes(ctx context.Context, caller, company int64, page store.Page) ([]models.Quiz, error) {
	var qs []models.Quiz
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, company, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.TakeQuizzes) {
			return proto.ErrNotMember
		}

		qs, err = d.store.ListQuizzes(ctx, tx, company, page)
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing quizzes", "company", company)
	}

	return qs, nil
}

// UpdateQuiz replaces the settings and the questions of a quiz.
func (d *Backend) UpdateQuiz(ctx context.Context, caller, id int64, in QuizInput) (Quiz, error) {
	var q Quiz
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		cur, err := d.quiz(ctx, tx, id)
		if err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, cur.CompanyID, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.ManageQuizzes) {
			return proto.ErrNotPermitted
		}
		if err := in.Validate(); err != nil {
			return err
		}

		if err := d.store.UpdateQuiz(ctx, tx, id, in.Name, in.Description, in.FrequencyDays); err != nil {
			return err
		}
		if err := d.store.DeleteQuestions(ctx, tx, id); err != nil {
			return err
		}
		q.Questions, err = d.addQuestions(ctx, tx, id, in.Questions)
		if err != nil {
			return err
		}

		q.Quiz, err = d.store.GetQuizByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return Quiz{}, d.txError(err, "updating quiz", "id", id)
	}

	return q, nil
}

// DeleteQuiz deletes a quiz with its questions and results.
func (d *Backend) DeleteQuiz(ctx context.Context, caller, id int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		q, err := d.quiz(ctx, tx, id)
		if err != nil {
			return err
		}

		caps, _, err := d.capabilities(ctx, tx, q.CompanyID, caller, false)
		if err != nil {
			return err
		}
		if !caps.Has(access.ManageQuizzes) {
			return proto.ErrNotPermitted
		}

		return d.store.DeleteQuizByID(ctx, tx, id)
	})

	return d.txError(err, "deleting quiz", "id", id)
}

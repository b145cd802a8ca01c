package database

import (
	"context"
	"strings"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
)

type resultStore struct{}

var _ store.ResultStore = (*resultStore)(nil)

// CreateResult implements store.ResultStore.
func (*resultStore) CreateResult(ctx context.Context, h db.Handler, r models.Result) (models.Result, error) {
	query := h.Rebind(`
		INSERT INTO
		  results (
		    quiz_id,
		    company_member_id,
		    score,
		    total_questions,
		    correct_answers,
		    created_at
		  )
		VALUES
		  (?, ?, ?, ?, ?, ?) RETURNING id;
	`)

	if err := h.GetContext(ctx, &r.ID, query, r.QuizID, r.CompanyMemberID, r.Score,
		r.TotalQuestions, r.CorrectAnswers, r.CreatedAt); err != nil {
		return models.Result{}, err
	}

	return r, nil
}

const selectMemberResults = `
		SELECT
		  r.*,
		  cm.user_id,
		  cm.company_id,
		  q.name AS quiz_name,
		  q.frequency_days
		FROM
		  results r
		  JOIN company_members cm ON cm.id = r.company_member_id
		  JOIN quizzes q ON q.id = r.quiz_id`

func filterResults(f store.ResultFilter, latest bool) (string, []interface{}) {
	var where []string
	var args []interface{}
	if f.UserID != 0 {
		where = append(where, "cm.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.CompanyID != 0 {
		where = append(where, "cm.company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.QuizID != 0 {
		where = append(where, "r.quiz_id = ?")
		args = append(args, f.QuizID)
	}
	if latest {
		where = append(where, "r.id IN (SELECT MAX(id) FROM results GROUP BY company_member_id, quiz_id)")
	}

	query := selectMemberResults
	if len(where) > 0 {
		query += "\n\t\tWHERE\n\t\t  " + strings.Join(where, "\n\t\t  AND ")
	}
	return query + "\n\t\tORDER BY\n\t\t  r.id;", args
}

// ListResults implements store.ResultStore.
func (*resultStore) ListResults(ctx context.Context, h db.Handler, f store.ResultFilter) ([]models.MemberResult, error) {
	query, args := filterResults(f, false)
	var ms []models.MemberResult
	err := h.SelectContext(ctx, &ms, h.Rebind(query), args...)
	return ms, err
}

// ListLatestResults implements store.ResultStore.
func (*resultStore) ListLatestResults(ctx context.Context, h db.Handler, f store.ResultFilter) ([]models.MemberResult, error) {
	query, args := filterResults(f, true)
	var ms []models.MemberResult
	err := h.SelectContext(ctx, &ms, h.Rebind(query), args...)
	return ms, err
}

// AverageScore implements store.ResultStore.
func (*resultStore) AverageScore(ctx context.Context, h db.Handler, user, company int64) (float64, int, error) {
	var m struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	query := h.Rebind(`
		SELECT
		  COALESCE(AVG(r.score), 0) AS average,
		  COUNT(r.id) AS count
		FROM
		  results r
		  JOIN company_members cm ON cm.id = r.company_member_id
		WHERE
		  cm.user_id = ?
		  AND cm.company_id = ?;
	`)
	err := h.GetContext(ctx, &m, query, user, company)
	return m.Average, m.Count, err
}

// CompanyAverages implements store.ResultStore.
func (*resultStore) CompanyAverages(ctx context.Context, h db.Handler, user int64) ([]float64, error) {
	var avgs []float64
	query := h.Rebind(`
		SELECT
		  AVG(r.score)
		FROM
		  results r
		  JOIN company_members cm ON cm.id = r.company_member_id
		WHERE
		  cm.user_id = ?
		GROUP BY
		  cm.company_id
		ORDER BY
		  cm.company_id;
	`)
	err := h.SelectContext(ctx, &avgs, query, user)
	return avgs, err
}

// ListMemberAverages implements store.ResultStore.
func (*resultStore) ListMemberAverages(ctx context.Context, h db.Handler, company int64) ([]models.MemberAverage, error) {
	var ms []models.MemberAverage
	query := h.Rebind(`
		SELECT
		  u.id AS user_id,
		  u.username,
		  AVG(r.score) AS average,
		  COUNT(r.id) AS count
		FROM
		  results r
		  JOIN company_members cm ON cm.id = r.company_member_id
		  JOIN users u ON u.id = cm.user_id
		WHERE
		  cm.company_id = ?
		GROUP BY
		  u.id,
		  u.username
		ORDER BY
		  u.id;
	`)
	err := h.SelectContext(ctx, &ms, query, company)
	return ms, err
}

// ListMemberLastResults implements store.ResultStore.
func (*resultStore) ListMemberLastResults(ctx context.Context, h db.Handler, company int64) ([]models.MemberLastResult, error) {
	var ms []models.MemberLastResult
	query := h.Rebind(`
		SELECT
		  u.id AS user_id,
		  u.username,
		  r.created_at AS last_at
		FROM
		  results r
		  JOIN company_members cm ON cm.id = r.company_member_id
		  JOIN users u ON u.id = cm.user_id
		WHERE
		  cm.company_id = ?
		  AND r.id IN (SELECT MAX(id) FROM results GROUP BY company_member_id)
		ORDER BY
		  u.id;
	`)
	err := h.SelectContext(ctx, &ms, query, company)
	return ms, err
}

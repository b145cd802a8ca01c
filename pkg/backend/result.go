package backend

import (
	"context"
	"encoding/json"
	"math"

	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/cache"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/export"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/stats"
	"github.com/quizhub/quizhub/pkg/store"
)

// sameSet reports whether a and b hold the same strings, ignoring order and
// repetition.
func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[s] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := as[s]; !ok {
			return false
		}
		bs[s] = struct{}{}
	}
	return len(as) == len(bs)
}

func roundScore(f float64) float64 {
	return math.Round(f*100) / 100
}

// SubmitResult grades caller's answers to a quiz, keyed by question id, and
// stores the result. The answers are recorded in the ledger for export.
func (d *Backend) SubmitResult(ctx context.Context, caller, quizID int64, answers map[int64][]string) (models.Result, error) {
	var r models.Result
	var rec export.Record
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		q, err := d.quiz(ctx, tx, quizID)
		if err != nil {
			return err
		}

		m, err := d.store.GetCompanyMember(ctx, tx, q.CompanyID, caller)
		if err != nil {
			return notFound(err, proto.ErrNotMember)
		}
		if !access.For(m.Role, false).Has(access.TakeQuizzes) {
			return proto.ErrNotPermitted
		}

		questions, err := d.store.ListQuestions(ctx, tx, quizID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return proto.Invalid("quiz has no questions")
		}
		known := make(map[int64]struct{}, len(questions))
		for _, qu := range questions {
			known[qu.ID] = struct{}{}
		}
		for id := range answers {
			if _, ok := known[id]; !ok {
				return proto.Invalid("question %d is not part of this quiz", id)
			}
		}

		rec = export.Record{
			UserID:    caller,
			CompanyID: q.CompanyID,
			QuizID:    quizID,
			Questions: make([]export.Answer, 0, len(questions)),
			CreatedAt: d.now(),
		}
		r = models.Result{
			QuizID:          quizID,
			CompanyMemberID: m.ID,
			TotalQuestions:  len(questions),
			CreatedAt:       rec.CreatedAt,
		}
		for _, qu := range questions {
			given := answers[qu.ID]
			if given == nil {
				given = []string{}
			}
			ok := len(given) > 0 && sameSet(given, qu.CorrectAnswers)
			if ok {
				r.CorrectAnswers++
			}
			rec.Questions = append(rec.Questions, export.Answer{
				Question:   qu.Text,
				UserAnswer: given,
				IsCorrect:  ok,
			})
		}
		r.Score = roundScore(float64(r.CorrectAnswers) / float64(r.TotalQuestions))

		r, err = d.store.CreateResult(ctx, tx, r)
		return err
	})
	if err != nil {
		return models.Result{}, d.txError(err, "submitting result", "quiz", quizID, "user", caller)
	}

	rec.ResultID = r.ID
	d.writeLedger(ctx, rec)
	stats.ResultsSubmitted.Inc()
	return r, nil
}

// writeLedger stores rec in the cache. Failures are logged since the result
// itself is already committed.
func (d *Backend) writeLedger(ctx context.Context, rec export.Record) {
	if d.cache == nil {
		return
	}

	bts, err := json.Marshal(rec)
	if err != nil {
		d.logger.Error("error encoding ledger record", "result", rec.ResultID, "err", err)
		return
	}

	key := export.Key(rec.CompanyID, rec.UserID, rec.QuizID, rec.ResultID)
	if err := d.cache.Set(ctx, key, bts, cache.WithTTL(d.cfg.Cache.LedgerTTL)); err != nil {
		d.logger.Error("error writing ledger record", "key", key, "err", err)
	}
}

// CompanyRating returns caller's mean score in company.
func (d *Backend) CompanyRating(ctx context.Context, caller, company int64) (float64, error) {
	var avg float64
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.company(ctx, tx, company); err != nil {
			return err
		}

		r, err := d.role(ctx, tx, company, caller)
		if err != nil {
			return err
		}
		if r == access.NoRole {
			return proto.ErrNotMember
		}

		var n int
		avg, n, err = d.store.AverageScore(ctx, tx, caller, company)
		if err != nil {
			return err
		}
		if n == 0 {
			return proto.ErrResultNotFound
		}
		return nil
	})
	if err != nil {
		return 0, d.txError(err, "computing company rating", "company", company, "user", caller)
	}

	return avg, nil
}

// GlobalRating returns the mean of caller's per company mean scores.
func (d *Backend) GlobalRating(ctx context.Context, caller int64) (float64, error) {
	avgs, err := d.store.CompanyAverages(ctx, d.db, caller)
	if err != nil {
		d.logger.Error("error computing global rating", "user", caller, "err", err)
		return 0, db.WrapError(err)
	}
	if len(avgs) == 0 {
		return 0, proto.ErrResultNotFound
	}

	var sum float64
	for _, a := range avgs {
		sum += a
	}
	return sum / float64(len(avgs)), nil
}

// QuizResults lists caller's results for a quiz.
func (d *Backend) QuizResults(ctx context.Context, caller, quizID int64) ([]models.MemberResult, error) {
	var rs []models.MemberResult
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.quiz(ctx, tx, quizID); err != nil {
			return err
		}

		var err error
		rs, err = d.store.ListResults(ctx, tx, store.ResultFilter{UserID: caller, QuizID: quizID})
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing quiz results", "quiz", quizID)
	}

	return rs, nil
}

// LatestResults lists caller's latest result for every quiz they took.
func (d *Backend) LatestResults(ctx context.Context, caller int64) ([]models.MemberResult, error) {
	rs, err := d.store.ListLatestResults(ctx, d.db, store.ResultFilter{UserID: caller})
	if err != nil {
		d.logger.Error("error listing latest results", "user", caller, "err", err)
		return nil, db.WrapError(err)
	}
	return rs, nil
}

// canViewAnalytics checks that company exists and that caller may read its
// members' results.
func (d *Backend) canViewAnalytics(ctx context.Context, h db.Handler, caller, company int64) error {
	if _, err := d.company(ctx, h, company); err != nil {
		return err
	}

	caps, _, err := d.capabilities(ctx, h, company, caller, false)
	if err != nil {
		return err
	}
	if !caps.Has(access.ViewAnalytics) {
		return proto.ErrNotPermitted
	}
	return nil
}

// MemberAverages lists the mean score of every member of company.
func (d *Backend) MemberAverages(ctx context.Context, caller, company int64) ([]models.MemberAverage, error) {
	var ms []models.MemberAverage
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.canViewAnalytics(ctx, tx, caller, company); err != nil {
			return err
		}

		var err error
		ms, err = d.store.ListMemberAverages(ctx, tx, company)
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing member averages", "company", company)
	}

	return ms, nil
}

// MemberResults lists the results of user in company.
func (d *Backend) MemberResults(ctx context.Context, caller, company, user int64) ([]models.MemberResult, error) {
	var rs []models.MemberResult
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.canViewAnalytics(ctx, tx, caller, company); err != nil {
			return err
		}

		r, err := d.role(ctx, tx, company, user)
		if err != nil {
			return err
		}
		if r == access.NoRole {
			return proto.ErrMemberNotFound
		}

		rs, err = d.store.ListResults(ctx, tx, store.ResultFilter{UserID: user, CompanyID: company})
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing member results", "company", company, "user", user)
	}

	return rs, nil
}

// LastResults lists the time of the last submission of every member of
// company.
func (d *Backend) LastResults(ctx context.Context, caller, company int64) ([]models.MemberLastResult, error) {
	var ms []models.MemberLastResult
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.canViewAnalytics(ctx, tx, caller, company); err != nil {
			return err
		}

		var err error
		ms, err = d.store.ListMemberLastResults(ctx, tx, company)
		return err
	})
	if err != nil {
		return nil, d.txError(err, "listing last results", "company", company)
	}

	return ms, nil
}

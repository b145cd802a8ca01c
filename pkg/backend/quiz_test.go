package backend

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/store"
)

func sampleQuiz() QuizInput {
	return QuizInput{
		Name:          "Basics",
		Description:   "warm up",
		FrequencyDays: 1,
		Questions: []QuestionInput{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswers: []string{"4"}},
			{Text: "Even numbers?", Options: []string{"1", "2", "4"}, CorrectAnswers: []string{"2", "4"}},
			{Text: "Sky color?", Options: []string{"blue", "green"}, CorrectAnswers: []string{"blue"}},
		},
	}
}

// joined returns a fixture where u is a member of the company.
func joined(t *testing.T) fixture {
	t.Helper()
	f := newFixture(t)
	inv, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.be.AcceptInvite(f.ctx, f.u.ID, inv.ID); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestQuizValidate(t *testing.T) {
	cases := map[string]func(*QuizInput){
		"no name":         func(q *QuizInput) { q.Name = "" },
		"zero frequency":  func(q *QuizInput) { q.FrequencyDays = 0 },
		"one question":    func(q *QuizInput) { q.Questions = q.Questions[:1] },
		"one option":      func(q *QuizInput) { q.Questions[0].Options = []string{"4"} },
		"no correct":      func(q *QuizInput) { q.Questions[0].CorrectAnswers = nil },
		"correct not opt": func(q *QuizInput) { q.Questions[1].CorrectAnswers = []string{"6"} },
		"empty text":      func(q *QuizInput) { q.Questions[2].Text = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := sampleQuiz()
			mutate(&q)
			if err := q.Validate(); !errors.Is(err, proto.ErrValidation) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
		})
	}

	if err := sampleQuiz().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestQuizLifecycle(t *testing.T) {
	is := is.New(t)
	f := joined(t)

	_, err := f.be.CreateQuiz(f.ctx, f.u.ID, f.company.ID, sampleQuiz())
	is.Equal(err, proto.ErrNotPermitted)

	bad := sampleQuiz()
	bad.Questions = bad.Questions[:1]
	_, err = f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, bad)
	is.True(errors.Is(err, proto.ErrValidation))

	q, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, sampleQuiz())
	is.NoErr(err)
	is.Equal(len(q.Questions), 3)

	// Every other member is told about the new quiz.
	ns, err := f.be.Notifications(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Text, "In Acme company, a new quiz 'Basics' has been created. Take it now!")
	ns, err = f.be.Notifications(f.ctx, f.owner.ID)
	is.NoErr(err)
	is.Equal(len(ns), 0)

	// Members don't see the correct answers.
	got, err := f.be.Quiz(f.ctx, f.u.ID, q.ID)
	is.NoErr(err)
	is.Equal(len(got.Questions), 3)
	is.True(got.Questions[0].CorrectAnswers == nil)
	got, err = f.be.Quiz(f.ctx, f.owner.ID, q.ID)
	is.NoErr(err)
	is.Equal([]string(got.Questions[0].CorrectAnswers), []string{"4"})

	_, err = f.be.Quiz(f.ctx, f.v.ID, q.ID)
	is.Equal(err, proto.ErrNotMember)
	_, err = f.be.Quiz(f.ctx, f.u.ID, 999)
	is.Equal(err, proto.ErrQuizNotFound)

	qs, err := f.be.Quizzes(f.ctx, f.u.ID, f.company.ID, store.Page{})
	is.NoErr(err)
	is.Equal(len(qs), 1)

	in := sampleQuiz()
	in.Name = "Basics v2"
	in.FrequencyDays = 7
	in.Questions = in.Questions[:2]
	up, err := f.be.UpdateQuiz(f.ctx, f.owner.ID, q.ID, in)
	is.NoErr(err)
	is.Equal(up.Name, "Basics v2")
	is.Equal(up.FrequencyDays, 7)
	is.Equal(len(up.Questions), 2)

	is.Equal(f.be.DeleteQuiz(f.ctx, f.u.ID, q.ID), proto.ErrNotPermitted)
	is.NoErr(f.be.DeleteQuiz(f.ctx, f.owner.ID, q.ID))
	is.Equal(f.be.DeleteQuiz(f.ctx, f.owner.ID, q.ID), proto.ErrQuizNotFound)
}

func TestSubmitAndRate(t *testing.T) {
	is := is.New(t)
	f := joined(t)

	q, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, sampleQuiz())
	is.NoErr(err)
	ids := []int64{q.Questions[0].ID, q.Questions[1].ID, q.Questions[2].ID}

	_, err = f.be.CompanyRating(f.ctx, f.u.ID, f.company.ID)
	is.Equal(err, proto.ErrResultNotFound)
	_, err = f.be.GlobalRating(f.ctx, f.u.ID)
	is.Equal(err, proto.ErrResultNotFound)

	_, err = f.be.SubmitResult(f.ctx, f.v.ID, q.ID, nil)
	is.Equal(err, proto.ErrNotMember)

	// Answers to questions of another quiz are rejected and nothing is stored.
	_, err = f.be.SubmitResult(f.ctx, f.u.ID, q.ID, map[int64][]string{
		ids[0]:          {"4"},
		ids[2] + 100000: {"x"},
	})
	is.True(errors.Is(err, proto.ErrValidation))

	// Two of three right, order of answers doesn't matter.
	r, err := f.be.SubmitResult(f.ctx, f.u.ID, q.ID, map[int64][]string{
		ids[0]: {"4"},
		ids[1]: {"4", "2"},
		ids[2]: {"green"},
	})
	is.NoErr(err)
	is.Equal(r.TotalQuestions, 3)
	is.Equal(r.CorrectAnswers, 2)
	is.Equal(r.Score, 0.67)

	r, err = f.be.SubmitResult(f.ctx, f.u.ID, q.ID, map[int64][]string{
		ids[0]: {"4"},
		ids[1]: {"2", "4"},
		ids[2]: {"blue"},
	})
	is.NoErr(err)
	is.Equal(r.Score, 1.0)

	avg, err := f.be.CompanyRating(f.ctx, f.u.ID, f.company.ID)
	is.NoErr(err)
	is.True(math.Abs(avg-0.835) < 1e-9)

	global, err := f.be.GlobalRating(f.ctx, f.u.ID)
	is.NoErr(err)
	is.True(math.Abs(global-avg) < 1e-9)

	_, err = f.be.CompanyRating(f.ctx, f.v.ID, f.company.ID)
	is.Equal(err, proto.ErrNotMember)

	rs, err := f.be.QuizResults(f.ctx, f.u.ID, q.ID)
	is.NoErr(err)
	is.Equal(len(rs), 2)

	latest, err := f.be.LatestResults(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(latest), 1)
	is.Equal(latest[0].ID, r.ID)
	is.Equal(latest[0].QuizName, "Basics")
}

func TestAnalyticsAndExport(t *testing.T) {
	is := is.New(t)
	f := joined(t)

	q, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, sampleQuiz())
	is.NoErr(err)
	answers := map[int64][]string{q.Questions[0].ID: {"4"}}
	r, err := f.be.SubmitResult(f.ctx, f.u.ID, q.ID, answers)
	is.NoErr(err)
	is.Equal(r.Score, 0.33)

	_, err = f.be.MemberAverages(f.ctx, f.u.ID, f.company.ID)
	is.Equal(err, proto.ErrNotPermitted)

	avgs, err := f.be.MemberAverages(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(avgs), 1)
	is.Equal(avgs[0].UserID, f.u.ID)
	is.Equal(avgs[0].Count, 1)

	rs, err := f.be.MemberResults(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	is.Equal(len(rs), 1)
	_, err = f.be.MemberResults(f.ctx, f.owner.ID, f.company.ID, f.v.ID)
	is.Equal(err, proto.ErrMemberNotFound)

	last, err := f.be.LastResults(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(last), 1)
	is.Equal(last[0].Username, "ursula")

	recs, err := f.be.ExportMine(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(recs), 1)
	is.Equal(recs[0].ResultID, r.ID)
	is.Equal(len(recs[0].Questions), 3)
	is.Equal(recs[0].Questions[0].UserAnswer, []string{"4"})
	is.True(recs[0].Questions[0].IsCorrect)
	is.Equal(recs[0].Questions[1].UserAnswer, []string{})
	is.True(!recs[0].Questions[1].IsCorrect)

	recs, err = f.be.ExportCompany(f.ctx, f.owner.ID, f.company.ID)
	is.NoErr(err)
	is.Equal(len(recs), 1)
	_, err = f.be.ExportCompany(f.ctx, f.u.ID, f.company.ID)
	is.Equal(err, proto.ErrNotPermitted)

	recs, err = f.be.ExportMember(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)
	is.Equal(len(recs), 1)

	recs, err = f.be.ExportMine(f.ctx, f.owner.ID)
	is.NoErr(err)
	is.Equal(len(recs), 0)
}

func TestNotifications(t *testing.T) {
	is := is.New(t)
	f := joined(t)

	for _, name := range []string{"One", "Two"} {
		in := sampleQuiz()
		in.Name = name
		_, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, in)
		is.NoErr(err)
	}

	ns, err := f.be.Notifications(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(ns), 2)

	is.Equal(f.be.ReadNotification(f.ctx, f.owner.ID, ns[0].ID), proto.ErrNotPermitted)
	is.Equal(f.be.ReadNotification(f.ctx, f.u.ID, 999), proto.ErrNotificationNotFound)
	is.NoErr(f.be.ReadNotification(f.ctx, f.u.ID, ns[0].ID))

	ns, err = f.be.Notifications(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(ns), 1)

	is.NoErr(f.be.ReadAllNotifications(f.ctx, f.u.ID))
	ns, err = f.be.Notifications(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(ns), 0)
}

func TestNotifyRetakes(t *testing.T) {
	is := is.New(t)
	f := joined(t)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.be.now = func() time.Time { return start }

	daily, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, sampleQuiz())
	is.NoErr(err)
	weekly := sampleQuiz()
	weekly.Name = "Weekly"
	weekly.FrequencyDays = 7
	wq, err := f.be.CreateQuiz(f.ctx, f.owner.ID, f.company.ID, weekly)
	is.NoErr(err)
	is.NoErr(f.be.ReadAllNotifications(f.ctx, f.u.ID))

	_, err = f.be.SubmitResult(f.ctx, f.u.ID, daily.ID, nil)
	is.NoErr(err)
	_, err = f.be.SubmitResult(f.ctx, f.u.ID, wq.ID, nil)
	is.NoErr(err)

	n, err := f.be.NotifyRetakes(f.ctx)
	is.NoErr(err)
	is.Equal(n, 0)

	f.be.now = func() time.Time { return start.Add(36 * time.Hour) }
	n, err = f.be.NotifyRetakes(f.ctx)
	is.NoErr(err)
	is.Equal(n, 1)

	ns, err := f.be.Notifications(f.ctx, f.u.ID)
	is.NoErr(err)
	is.Equal(len(ns), 1)
	is.Equal(ns[0].Text, "You should complete quiz 'Basics' again!")

	// Membership actions are untouched by the sweep.
	is.Equal(len(f.members(t)), 2)
}

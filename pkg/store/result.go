package store

import (
	"context"
	"time"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
)

// ResultFilter narrows result queries. Zero fields match everything.
type ResultFilter struct {
	UserID    int64
	CompanyID int64
	QuizID    int64
}

// ResultStore is an interface for managing quiz results.
type ResultStore interface {
	CreateResult(ctx context.Context, h db.Handler, r models.Result) (models.Result, error)
	ListResults(ctx context.Context, h db.Handler, f ResultFilter) ([]models.MemberResult, error)
	// ListLatestResults returns the latest result of every member for every
	// quiz matching f.
	ListLatestResults(ctx context.Context, h db.Handler, f ResultFilter) ([]models.MemberResult, error)
	// AverageScore returns the mean score and the number of results of user
	// in company.
	AverageScore(ctx context.Context, h db.Handler, user, company int64) (float64, int, error)
	// CompanyAverages returns the mean score of user in each company they
	// have results in.
	CompanyAverages(ctx context.Context, h db.Handler, user int64) ([]float64, error)
	ListMemberAverages(ctx context.Context, h db.Handler, company int64) ([]models.MemberAverage, error)
	ListMemberLastResults(ctx context.Context, h db.Handler, company int64) ([]models.MemberLastResult, error)
}

// NotificationStore is an interface for managing user notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, h db.Handler, user int64, text string, at time.Time) error
	GetNotificationByID(ctx context.Context, h db.Handler, id int64) (models.Notification, error)
	ListUnreadNotifications(ctx context.Context, h db.Handler, user int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, h db.Handler, id int64) error
	MarkAllNotificationsRead(ctx context.Context, h db.Handler, user int64) error
}

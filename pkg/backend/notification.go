package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/stats"
	"github.com/quizhub/quizhub/pkg/store"
)

func retakeText(quiz string) string {
	return fmt.Sprintf("You should complete quiz '%s' again!", quiz)
}

// Notifications lists caller's unread notifications.
func (d *Backend) Notifications(ctx context.Context, caller int64) ([]models.Notification, error) {
	ns, err := d.store.ListUnreadNotifications(ctx, d.db, caller)
	if err != nil {
		d.logger.Error("error listing notifications", "user", caller, "err", err)
		return nil, db.WrapError(err)
	}
	return ns, nil
}

// ReadNotification marks one of caller's notifications as read.
func (d *Backend) ReadNotification(ctx context.Context, caller, id int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		n, err := d.store.GetNotificationByID(ctx, tx, id)
		if err != nil {
			return notFound(err, proto.ErrNotificationNotFound)
		}
		if n.UserID != caller {
			return proto.ErrNotPermitted
		}

		return d.store.MarkNotificationRead(ctx, tx, id)
	})

	return d.txError(err, "reading notification", "id", id)
}

// ReadAllNotifications marks every notification of caller as read.
func (d *Backend) ReadAllNotifications(ctx context.Context, caller int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return d.store.MarkAllNotificationsRead(ctx, tx, caller)
	})

	return d.txError(err, "reading all notifications", "user", caller)
}

// NotifyRetakes reminds members whose latest result of a quiz is older than
// the quiz frequency to take it again. It returns the number of reminders
// created.
func (d *Backend) NotifyRetakes(ctx context.Context) (int, error) {
	var n int
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		rs, err := d.store.ListLatestResults(ctx, tx, store.ResultFilter{})
		if err != nil {
			return err
		}

		now := d.now()
		for _, r := range rs {
			due := time.Duration(r.FrequencyDays) * 24 * time.Hour
			if now.Sub(r.CreatedAt) < due {
				continue
			}
			if err := d.store.CreateNotification(ctx, tx, r.UserID, retakeText(r.QuizName), now); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, d.txError(err, "notifying retakes")
	}

	stats.NotificationsCreated.WithLabelValues("retake").Add(float64(n))
	d.logger.Info("retake reminders sent", "count", n)
	return n, nil
}

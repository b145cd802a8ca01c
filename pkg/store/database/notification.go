package database

import (
	"context"
	"time"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
)

type notificationStore struct{}

var _ store.NotificationStore = (*notificationStore)(nil)

// CreateNotification implements store.NotificationStore.
func (*notificationStore) CreateNotification(ctx context.Context, h db.Handler, user int64, text string, at time.Time) error {
	query := h.Rebind(`
		INSERT INTO
		  notifications (user_id, text, is_read, created_at)
		VALUES
		  (?, ?, ?, ?);
	`)
	_, err := h.ExecContext(ctx, query, user, text, false, at)
	return err
}

// GetNotificationByID implements store.NotificationStore.
func (*notificationStore) GetNotificationByID(ctx context.Context, h db.Handler, id int64) (models.Notification, error) {
	var m models.Notification
	query := h.Rebind(`SELECT * FROM notifications WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// ListUnreadNotifications implements store.NotificationStore.
func (*notificationStore) ListUnreadNotifications(ctx context.Context, h db.Handler, user int64) ([]models.Notification, error) {
	var ms []models.Notification
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  notifications
		WHERE
		  user_id = ?
		  AND is_read = ?
		ORDER BY
		  id;
	`)
	err := h.SelectContext(ctx, &ms, query, user, false)
	return ms, err
}

// MarkNotificationRead implements store.NotificationStore.
func (*notificationStore) MarkNotificationRead(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`UPDATE notifications SET is_read = ? WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, true, id))
}

// MarkAllNotificationsRead implements store.NotificationStore.
func (*notificationStore) MarkAllNotificationsRead(ctx context.Context, h db.Handler, user int64) error {
	query := h.Rebind(`UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?;`)
	_, err := h.ExecContext(ctx, query, true, user, false)
	return err
}

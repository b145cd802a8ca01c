package database

import (
	"context"
	"strings"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/store"
)

type userStore struct{}

var _ store.UserStore = (*userStore)(nil)

// CreateUser implements store.UserStore.
func (s *userStore) CreateUser(ctx context.Context, h db.Handler, username, email, password string, isAdmin bool) (models.User, error) {
	query := h.Rebind(`
		INSERT INTO
		  users (username, email, password, is_admin, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, strings.ToLower(username), strings.ToLower(email), password, isAdmin); err != nil {
		return models.User{}, err //nolint:wrapcheck
	}

	return s.GetUserByID(ctx, h, id)
}

// GetUserByID implements store.UserStore.
func (*userStore) GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err //nolint:wrapcheck
}

// FindUserByUsername implements store.UserStore.
func (*userStore) FindUserByUsername(ctx context.Context, h db.Handler, username string) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE username = ?;`)
	err := h.GetContext(ctx, &m, query, strings.ToLower(username))
	return m, err //nolint:wrapcheck
}

// FindUserByEmail implements store.UserStore.
func (*userStore) FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error) {
	var m models.User
	query := h.Rebind(`SELECT * FROM users WHERE email = ?;`)
	err := h.GetContext(ctx, &m, query, strings.ToLower(email))
	return m, err //nolint:wrapcheck
}

// ListUsers implements store.UserStore.
func (*userStore) ListUsers(ctx context.Context, h db.Handler, page store.Page) ([]models.User, error) {
	page = page.Normalize()
	var ms []models.User
	query := h.Rebind(`SELECT * FROM users ORDER BY id LIMIT ? OFFSET ?;`)
	err := h.SelectContext(ctx, &ms, query, page.Limit, page.Offset)
	return ms, err //nolint:wrapcheck
}

// UpdateUser implements store.UserStore. Empty values are left unchanged.
func (*userStore) UpdateUser(ctx context.Context, h db.Handler, id int64, username, password string) error {
	query := h.Rebind(`
		UPDATE users
		SET
		  username = CASE WHEN ? = '' THEN username ELSE ? END,
		  password = CASE WHEN ? = '' THEN password ELSE ? END,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?;
	`)
	username = strings.ToLower(username)
	return checkAffected(h.ExecContext(ctx, query, username, username, password, password, id))
}

// SetUserAdmin implements store.UserStore.
func (*userStore) SetUserAdmin(ctx context.Context, h db.Handler, id int64, isAdmin bool) error {
	query := h.Rebind(`UPDATE users SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, isAdmin, id))
}

// DeleteUserByID implements store.UserStore.
func (*userStore) DeleteUserByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM users WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, id))
}

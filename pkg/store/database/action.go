package database

import (
	"context"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/membership"
	"github.com/quizhub/quizhub/pkg/store"
)

type actionStore struct{}

var _ store.ActionStore = (*actionStore)(nil)

// CreateAction implements store.ActionStore.
func (s *actionStore) CreateAction(ctx context.Context, h db.Handler, company, user int64, typ membership.Type, status membership.Status) (models.Action, error) {
	query := h.Rebind(`
		INSERT INTO
		  actions (company_id, user_id, type, status, updated_at)
		VALUES
		  (?, ?, ?, ?, CURRENT_TIMESTAMP) RETURNING id;
	`)

	var id int64
	if err := h.GetContext(ctx, &id, query, company, user, typ, status); err != nil {
		return models.Action{}, err
	}

	return s.GetActionByID(ctx, h, id)
}

// GetActionByID implements store.ActionStore.
func (*actionStore) GetActionByID(ctx context.Context, h db.Handler, id int64) (models.Action, error) {
	var m models.Action
	query := h.Rebind(`SELECT * FROM actions WHERE id = ?;`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// FindAction implements store.ActionStore.
func (*actionStore) FindAction(ctx context.Context, h db.Handler, company, user int64) (models.Action, error) {
	var m models.Action
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  actions
		WHERE
		  company_id = ?
		  AND user_id = ?;
	`)
	err := h.GetContext(ctx, &m, query, company, user)
	return m, err
}

// UpdateActionStatus implements store.ActionStore.
func (*actionStore) UpdateActionStatus(ctx context.Context, h db.Handler, id int64, from, to membership.Status) error {
	query := h.Rebind(`
		UPDATE actions
		SET
		  status = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?
		  AND status = ?;
	`)
	return checkAffected(h.ExecContext(ctx, query, to, id, from))
}

// DeleteActionByID implements store.ActionStore.
func (*actionStore) DeleteActionByID(ctx context.Context, h db.Handler, id int64) error {
	query := h.Rebind(`DELETE FROM actions WHERE id = ?;`)
	return checkAffected(h.ExecContext(ctx, query, id))
}

// DeleteAction implements store.ActionStore. Deleting a missing action is
// not an error since members created with the company have none.
func (*actionStore) DeleteAction(ctx context.Context, h db.Handler, company, user int64) error {
	query := h.Rebind(`
		DELETE FROM actions
		WHERE
		  company_id = ?
		  AND user_id = ?;
	`)
	_, err := h.ExecContext(ctx, query, company, user)
	return err
}

// ListCompanyActions implements store.ActionStore.
func (*actionStore) ListCompanyActions(ctx context.Context, h db.Handler, company int64, status membership.Status) ([]models.ActionEntry, error) {
	var ms []models.ActionEntry
	query := h.Rebind(`
		SELECT
		  a.id AS action_id,
		  u.id AS user_id,
		  u.username,
		  a.company_id
		FROM
		  actions a
		  JOIN users u ON u.id = a.user_id
		WHERE
		  a.company_id = ?
		  AND a.status = ?
		ORDER BY
		  a.id;
	`)
	err := h.SelectContext(ctx, &ms, query, company, status)
	return ms, err
}

// ListUserActions implements store.ActionStore.
func (*actionStore) ListUserActions(ctx context.Context, h db.Handler, user int64, status membership.Status) ([]models.ActionEntry, error) {
	var ms []models.ActionEntry
	query := h.Rebind(`
		SELECT
		  a.id AS action_id,
		  u.id AS user_id,
		  u.username,
		  a.company_id
		FROM
		  actions a
		  JOIN users u ON u.id = a.user_id
		WHERE
		  a.user_id = ?
		  AND a.status = ?
		ORDER BY
		  a.id;
	`)
	err := h.SelectContext(ctx, &ms, query, user, status)
	return ms, err
}

package backend

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/store"
)

// UserByID finds a user by ID.
func (d *Backend) UserByID(ctx context.Context, id int64) (models.User, error) {
	m, err := d.store.GetUserByID(ctx, d.db, id)
	if err != nil {
		err = notFound(err, proto.ErrUserNotFound)
		if proto.KindOf(err) == proto.KindUnknown {
			d.logger.Error("error finding user", "id", id, "err", err)
		}
		return models.User{}, err
	}

	return m, nil
}

// User finds a user by username.
func (d *Backend) User(ctx context.Context, username string) (models.User, error) {
	m, err := d.store.FindUserByUsername(ctx, d.db, strings.ToLower(username))
	if err != nil {
		return models.User{}, notFound(err, proto.ErrUserNotFound)
	}

	return m, nil
}

// Users lists users.
func (d *Backend) Users(ctx context.Context, page store.Page) ([]models.User, error) {
	ms, err := d.store.ListUsers(ctx, d.db, page)
	if err != nil {
		d.logger.Error("error listing users", "err", err)
		return nil, db.WrapError(err)
	}

	return ms, nil
}

// canManageUser reports whether caller may change the account id.
func (d *Backend) canManageUser(ctx context.Context, h db.Handler, caller, id int64) error {
	if caller == id {
		return nil
	}
	m, err := d.store.GetUserByID(ctx, h, caller)
	if err != nil {
		return notFound(err, proto.ErrUserNotFound)
	}
	if !m.IsAdmin {
		return proto.ErrNotPermitted
	}
	return nil
}

// UpdateUser changes the username and, when password is not empty, the
// password of user id.
func (d *Backend) UpdateUser(ctx context.Context, caller, id int64, username, password string) (models.User, error) {
	if username != "" && utf8.RuneCountInString(username) > 50 {
		return models.User{}, proto.Invalid("username must be at most 50 characters")
	}

	var hash string
	if password != "" {
		if utf8.RuneCountInString(password) < MinPasswordLength {
			return models.User{}, proto.Invalid("password must be at least %d characters", MinPasswordLength)
		}
		var err error
		hash, err = HashPassword(password)
		if err != nil {
			return models.User{}, err
		}
	}

	var m models.User
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetUserByID(ctx, tx, id); err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}
		if err := d.canManageUser(ctx, tx, caller, id); err != nil {
			return err
		}
		if err := d.store.UpdateUser(ctx, tx, id, username, hash); err != nil {
			return err
		}

		var err error
		m, err = d.store.GetUserByID(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
			return models.User{}, proto.ErrUserExists
		}
		return models.User{}, d.txError(err, "updating user", "id", id)
	}

	return m, nil
}

// DeleteUser deletes user id along with their memberships and results.
func (d *Backend) DeleteUser(ctx context.Context, caller, id int64) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetUserByID(ctx, tx, id); err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}
		if err := d.canManageUser(ctx, tx, caller, id); err != nil {
			return err
		}

		return d.store.DeleteUserByID(ctx, tx, id)
	})

	return d.txError(err, "deleting user", "id", id)
}

// SetUserAdmin grants or revokes site admin rights.
func (d *Backend) SetUserAdmin(ctx context.Context, username string, isAdmin bool) error {
	err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		m, err := d.store.FindUserByUsername(ctx, tx, strings.ToLower(username))
		if err != nil {
			return notFound(err, proto.ErrUserNotFound)
		}

		return d.store.SetUserAdmin(ctx, tx, m.ID, isAdmin)
	})

	return d.txError(err, "setting user admin", "username", username)
}

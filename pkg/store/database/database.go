// Package database implements store.Store on top of sqlx.
package database

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/store"
)

type datastore struct {
	ctx    context.Context
	db     *db.DB
	logger *log.Logger

	*userStore
	*companyStore
	*actionStore
	*quizStore
	*resultStore
	*notificationStore
}

var _ store.Store = (*datastore)(nil)

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		db:     db,
		logger: logger,

		userStore:         &userStore{},
		companyStore:      &companyStore{},
		actionStore:       &actionStore{},
		quizStore:         &quizStore{},
		resultStore:       &resultStore{},
		notificationStore: &notificationStore{},
	}

	return s
}

// checkAffected turns an update that matched no row into db.ErrRecordNotFound.
func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

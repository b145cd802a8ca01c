package store

import (
	"context"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/membership"
)

// ActionStore is an interface for managing company membership actions.
type ActionStore interface {
	CreateAction(ctx context.Context, h db.Handler, company, user int64, typ membership.Type, status membership.Status) (models.Action, error)
	GetActionByID(ctx context.Context, h db.Handler, id int64) (models.Action, error)
	// FindAction returns the action of user in company.
	FindAction(ctx context.Context, h db.Handler, company, user int64) (models.Action, error)
	// UpdateActionStatus moves the action to status to only if it is
	// currently from. It returns db.ErrRecordNotFound otherwise.
	UpdateActionStatus(ctx context.Context, h db.Handler, id int64, from, to membership.Status) error
	DeleteActionByID(ctx context.Context, h db.Handler, id int64) error
	DeleteAction(ctx context.Context, h db.Handler, company, user int64) error
	ListCompanyActions(ctx context.Context, h db.Handler, company int64, status membership.Status) ([]models.ActionEntry, error)
	ListUserActions(ctx context.Context, h db.Handler, user int64, status membership.Status) ([]models.ActionEntry, error)
}

package store

import (
	"context"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
)

// UserStore is an interface for managing users.
type UserStore interface {
	GetUserByID(ctx context.Context, h db.Handler, id int64) (models.User, error)
	FindUserByUsername(ctx context.Context, h db.Handler, username string) (models.User, error)
	FindUserByEmail(ctx context.Context, h db.Handler, email string) (models.User, error)
	ListUsers(ctx context.Context, h db.Handler, page Page) ([]models.User, error)
	CreateUser(ctx context.Context, h db.Handler, username, email, password string, isAdmin bool) (models.User, error)
	UpdateUser(ctx context.Context, h db.Handler, id int64, username, password string) error
	SetUserAdmin(ctx context.Context, h db.Handler, id int64, isAdmin bool) error
	DeleteUserByID(ctx context.Context, h db.Handler, id int64) error
}

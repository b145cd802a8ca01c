// Package backend implements the QuizHub services: identity, companies, the
// membership workflow, quizzes, results, and notifications.
package backend

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/cache"
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/jwk"
	"github.com/quizhub/quizhub/pkg/store"
)

// Backend is the QuizHub backend. Every operation that writes more than one
// row runs in a single database transaction.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	cache  cache.Cache
	keys   jwk.Pair
	logger *log.Logger
	now    func() time.Time
}

// New returns a new QuizHub backend. The token signing key is created when it
// doesn't exist yet.
func New(ctx context.Context, cfg *config.Config, dbx *db.DB, st store.Store, c cache.Cache) (*Backend, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	keys, err := jwk.NewPair(cfg)
	if err != nil {
		return nil, err
	}

	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     dbx,
		store:  st,
		cache:  c,
		keys:   keys,
		logger: logger,
		now:    time.Now,
	}

	return b, nil
}

// Config returns the backend configuration.
func (d *Backend) Config() *config.Config {
	return d.cfg
}

// Ping checks the database connection.
func (d *Backend) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

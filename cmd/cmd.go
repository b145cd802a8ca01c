package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/cache"
	"github.com/quizhub/quizhub/pkg/cache/lru"
	_ "github.com/quizhub/quizhub/pkg/cache/noop"  // cache driver
	_ "github.com/quizhub/quizhub/pkg/cache/redis" // cache driver
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/store/database"
	"github.com/spf13/cobra"
)

// NewCache returns the cache driver named by the config.
func NewCache(cmd *cobra.Command) (cache.Cache, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	var opts []cache.Option
	driver := cfg.Cache.Driver
	switch driver {
	case "", "lru":
		driver = "lru"
		opts = append(opts, lru.WithSize(cfg.Cache.Size))
	}

	return cache.New(ctx, driver, opts...)
}

// InitBackendContext opens the database and cache, and attaches them to the
// command context together with the backend.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ctx = db.WithContext(ctx, dbx)
	ca, err := NewCache(cmd)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}

	ctx = cache.WithContext(ctx, ca)
	be, err := backend.New(ctx, cfg, dbx, database.New(ctx, dbx), ca)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	ctx = backend.WithContext(ctx, be)
	cmd.SetContext(ctx)

	return nil
}

// CloseDBContext closes the database and the cache when it holds a
// connection.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if c, ok := cache.FromContext(ctx).(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.FromContext(ctx).Warn("close cache", "err", err)
		}
	}

	dbx := db.FromContext(ctx)
	if dbx != nil {
		if err := dbx.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}

package serve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/cache/noop"
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/store/database"
	"github.com/quizhub/quizhub/pkg/test"
)

func TestServer(t *testing.T) {
	is := is.New(t)
	ctx := log.WithContext(context.TODO(), log.New(io.Discard))

	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.HTTP.ListenAddr = fmt.Sprintf("localhost:%d", test.RandomPort())
	cfg.Stats.ListenAddr = fmt.Sprintf("localhost:%d", test.RandomPort())
	cfg.JWT.KeyPath = filepath.Join(cfg.DataPath, "keys", "jwt_ed25519")
	ctx = config.WithContext(ctx, cfg)

	dbx := test.OpenDB(ctx, t)
	c, err := noop.NewCache(ctx)
	is.NoErr(err)
	be, err := backend.New(ctx, cfg, dbx, database.New(ctx, dbx), c)
	is.NoErr(err)
	ctx = db.WithContext(ctx, dbx)
	ctx = backend.WithContext(ctx, be)

	s, err := NewServer(ctx)
	is.NoErr(err)

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	get := func(addr, path string) int {
		res, err := http.Get("http://" + addr + path) //nolint:noctx
		if err != nil {
			return 0
		}
		defer res.Body.Close() // nolint: errcheck
		return res.StatusCode
	}

	wait := func(addr, path string) {
		deadline := time.Now().Add(5 * time.Second)
		for get(addr, path) != http.StatusOK {
			if time.Now().After(deadline) {
				t.Fatalf("%s%s didn't come up", addr, path)
			}
			time.Sleep(50 * time.Millisecond)
		}
	}

	wait(cfg.HTTP.ListenAddr, "/livez")
	wait(cfg.Stats.ListenAddr, "/metrics")
	is.Equal(get(cfg.HTTP.ListenAddr, "/readyz"), http.StatusOK)

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	is.NoErr(s.Shutdown(sctx))
	is.NoErr(<-errc)
}

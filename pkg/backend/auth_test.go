package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/cache/lru"
	"github.com/quizhub/quizhub/pkg/config"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"github.com/quizhub/quizhub/pkg/store"
	"github.com/quizhub/quizhub/pkg/store/database"
	"github.com/quizhub/quizhub/pkg/test"
)

func setup(t *testing.T) (context.Context, *Backend) {
	t.Helper()
	ctx := context.TODO()
	dbx := test.OpenDB(ctx, t)
	cfg := config.DefaultConfig()
	cfg.JWT.KeyPath = filepath.Join(t.TempDir(), "keys", "jwt_ed25519")

	c, err := lru.NewCache(ctx, lru.WithSize(100))
	if err != nil {
		t.Fatal(err)
	}

	be, err := New(ctx, cfg, dbx, database.New(ctx, dbx), c)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, be
}

func mustUser(t *testing.T, ctx context.Context, be *Backend, name string) models.User {
	t.Helper()
	u, err := be.CreateUser(ctx, name, name+"@example.com", "password", false)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "" {
		t.Fatal("hash is empty")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password")
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword("password", hash) {
		t.Fatal("password did not verify")
	}
	if VerifyPassword("Password", hash) {
		t.Fatal("wrong password verified")
	}
}

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name, username, email, password string
		ok                              bool
	}{
		{"valid", "alice", "alice@example.com", "secret", true},
		{"no username", " ", "alice@example.com", "secret", false},
		{"bad email", "alice", "alice", "secret", false},
		{"short password", "alice", "alice@example.com", "12345", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateCredentials(c.username, c.email, c.password)
			if c.ok != (err == nil) {
				t.Errorf("ValidateCredentials() = %v, want ok=%v", err, c.ok)
			}
			if err != nil && !errors.Is(err, proto.ErrValidation) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestRegisterLogin(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)

	u, err := be.Register(ctx, "Alice", "alice@example.com", "secret")
	is.NoErr(err)
	is.Equal(u.Username, "alice")
	is.True(u.Password != "secret")

	_, err = be.Register(ctx, "alice", "other@example.com", "secret")
	is.Equal(err, proto.ErrUserExists)
	is.True(errors.Is(err, proto.ErrConflict))

	_, err = be.Login(ctx, "nobody@example.com", "secret")
	is.Equal(err, proto.ErrUserNotFound)

	_, err = be.Login(ctx, "alice@example.com", "wrong!")
	is.Equal(err, proto.ErrWrongPassword)

	token, err := be.Login(ctx, "alice@example.com", "secret")
	is.NoErr(err)

	m, err := be.Authenticate(ctx, token)
	is.NoErr(err)
	is.Equal(m.ID, u.ID)
}

func TestAuthenticate(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)
	u := mustUser(t, ctx, be, "bob")

	_, err := be.Authenticate(ctx, "not-a-token")
	is.Equal(err, proto.ErrInvalidToken)

	// Expired.
	issued := time.Now().Add(-48 * time.Hour)
	be.now = func() time.Time { return issued }
	token, err := be.IssueToken(u)
	is.NoErr(err)
	be.now = time.Now
	_, err = be.Authenticate(ctx, token)
	is.Equal(err, proto.ErrTokenExpired)

	// Renamed users must log in again.
	token, err = be.IssueToken(u)
	is.NoErr(err)
	_, err = be.UpdateUser(ctx, u.ID, u.ID, "robert", "")
	is.NoErr(err)
	_, err = be.Authenticate(ctx, token)
	is.Equal(err, proto.ErrInvalidToken)

	// Deleted users too.
	u, err = be.UserByID(ctx, u.ID)
	is.NoErr(err)
	token, err = be.IssueToken(u)
	is.NoErr(err)
	is.NoErr(be.DeleteUser(ctx, u.ID, u.ID))
	_, err = be.Authenticate(ctx, token)
	is.Equal(err, proto.ErrInvalidToken)

	is.Equal(len(be.KeySet().Keys), 1)
}

func TestUsers(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)
	alice := mustUser(t, ctx, be, "alice")
	bob := mustUser(t, ctx, be, "bob")

	users, err := be.Users(ctx, store.Page{})
	is.NoErr(err)
	is.Equal(len(users), 2)

	_, err = be.UserByID(ctx, 999)
	is.Equal(err, proto.ErrUserNotFound)

	_, err = be.UpdateUser(ctx, alice.ID, bob.ID, "bobby", "")
	is.Equal(err, proto.ErrNotPermitted)

	_, err = be.UpdateUser(ctx, alice.ID, alice.ID, "bob", "")
	is.Equal(err, proto.ErrUserExists)

	_, err = be.UpdateUser(ctx, alice.ID, alice.ID, "", "123")
	is.True(errors.Is(err, proto.ErrValidation))

	m, err := be.UpdateUser(ctx, alice.ID, alice.ID, "", "new-password")
	is.NoErr(err)
	is.Equal(m.Username, "alice")
	_, err = be.Login(ctx, "alice@example.com", "new-password")
	is.NoErr(err)

	is.Equal(be.DeleteUser(ctx, alice.ID, bob.ID), proto.ErrNotPermitted)

	is.NoErr(be.SetUserAdmin(ctx, "alice", true))
	is.NoErr(be.DeleteUser(ctx, alice.ID, bob.ID))
	_, err = be.User(ctx, "bob")
	is.Equal(err, proto.ErrUserNotFound)

	is.Equal(be.SetUserAdmin(ctx, "nobody", true), proto.ErrUserNotFound)
}

func TestBackendContext(t *testing.T) {
	is := is.New(t)
	ctx, be := setup(t)
	is.True(FromContext(ctx) == nil)
	ctx = WithContext(ctx, be)
	is.Equal(FromContext(ctx), be)
	is.NoErr(be.Ping(ctx))
	is.Equal(be.Config().Name, "QuizHub")
}

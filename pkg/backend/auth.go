package backend

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/proto"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// HashPassword hashes the password using bcrypt.
func HashPassword(password string) (string, error) {
	crypt, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(crypt), nil
}

// VerifyPassword verifies the password against the hash.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidateCredentials checks the shape of a username, email and password.
func ValidateCredentials(username, email, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return proto.Invalid("username is required")
	case utf8.RuneCountInString(username) > 50:
		return proto.Invalid("username must be at most 50 characters")
	case !strings.Contains(email, "@"):
		return proto.Invalid("email is invalid")
	case utf8.RuneCountInString(email) > 50:
		return proto.Invalid("email must be at most 50 characters")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return proto.Invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Register creates a new user account.
func (d *Backend) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return d.CreateUser(ctx, username, email, password, false)
}

// CreateUser creates a user, optionally with site admin rights.
func (d *Backend) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (models.User, error) {
	if err := ValidateCredentials(username, email, password); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	var m models.User
	err = d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		m, err = d.store.CreateUser(ctx, tx, username, email, hash, isAdmin)
		return err
	})
	if err != nil {
		err = db.WrapError(err)
		if errors.Is(err, db.ErrDuplicateKey) {
			return models.User{}, proto.ErrUserExists
		}
		d.logger.Error("error creating user", "username", username, "err", err)
		return models.User{}, err
	}

	d.logger.Info("user created", "id", m.ID, "username", m.Username)
	return m, nil
}

// Login checks the credentials and returns a signed access token.
func (d *Backend) Login(ctx context.Context, email, password string) (string, error) {
	m, err := d.store.FindUserByEmail(ctx, d.db, email)
	if err != nil {
		return "", notFound(err, proto.ErrUserNotFound)
	}

	if !VerifyPassword(password, m.Password) {
		return "", proto.ErrWrongPassword
	}

	return d.IssueToken(m)
}

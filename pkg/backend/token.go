package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizhub/quizhub/pkg/db/models"
	"github.com/quizhub/quizhub/pkg/jwk"
	"github.com/quizhub/quizhub/pkg/proto"
)

func tokenSubject(m models.User) string {
	return fmt.Sprintf("%s#%d", m.Username, m.ID)
}

// IssueToken returns a signed access token for the user.
func (d *Backend) IssueToken(m models.User) (string, error) {
	now := d.now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject(m),
		ExpiresAt: jwt.NewNumericDate(now.Add(d.cfg.JWT.Expiry)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    d.cfg.HTTP.PublicURL,
	}

	token := jwt.NewWithClaims(jwk.SigningMethod, claims)
	token.Header["kid"] = d.keys.JWK().KeyID
	j, err := token.SignedString(d.keys.PrivateKey())
	if err != nil {
		d.logger.Error("error signing token", "err", err)
		return "", err
	}

	return j, nil
}

// Authenticate verifies a bearer token and returns its user.
func (d *Backend) Authenticate(ctx context.Context, bearer string) (models.User, error) {
	token, err := jwt.ParseWithClaims(bearer, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, errors.New("invalid signing method")
		}

		return d.keys.PublicKey(), nil
	},
		jwt.WithIssuer(d.cfg.HTTP.PublicURL),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.User{}, proto.ErrTokenExpired
		}
		d.logger.Debug("failed to parse jwt", "err", err)
		return models.User{}, proto.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok {
		return models.User{}, proto.ErrInvalidToken
	}

	parts := strings.SplitN(claims.Subject, "#", 2)
	if len(parts) != 2 {
		d.logger.Debug("invalid jwt subject", "subject", claims.Subject)
		return models.User{}, proto.ErrInvalidToken
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return models.User{}, proto.ErrInvalidToken
	}

	m, err := d.store.GetUserByID(ctx, d.db, id)
	if err != nil {
		err = notFound(err, proto.ErrInvalidToken)
		if proto.KindOf(err) == proto.KindUnknown {
			d.logger.Error("error finding token user", "id", id, "err", err)
		}
		return models.User{}, err
	}

	// A renamed user must log in again.
	if expected := tokenSubject(m); expected != claims.Subject {
		d.logger.Debug("invalid jwt subject", "subject", claims.Subject, "expected", expected)
		return models.User{}, proto.ErrInvalidToken
	}

	return m, nil
}

// KeySet returns the public keys that verify access tokens.
func (d *Backend) KeySet() jose.JSONWebKeySet {
	return d.keys.KeySet()
}

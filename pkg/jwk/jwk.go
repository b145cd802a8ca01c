// Package jwk holds the key pair used to sign bearer tokens.
package jwk

import (
	"crypto"
	"fmt"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizhub/quizhub/pkg/config"
)

// SigningMethod is a JSON Web Token signing method. It uses Ed25519 keys to
// sign and verify tokens.
var SigningMethod = &jwt.SigningMethodEd25519{}

// Pair is a JSON Web Key pair.
type Pair struct {
	privateKey crypto.PrivateKey
	publicKey  crypto.PublicKey
	jwk        jose.JSONWebKey
}

// PrivateKey returns the private key.
func (p Pair) PrivateKey() crypto.PrivateKey {
	return p.privateKey
}

// PublicKey returns the public key used to verify tokens.
func (p Pair) PublicKey() crypto.PublicKey {
	return p.publicKey
}

// JWK returns the JSON Web Key.
func (p Pair) JWK() jose.JSONWebKey {
	return p.jwk
}

// KeySet returns the public JSON Web Key Set served to clients.
func (p Pair) KeySet() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{p.jwk.Public()}}
}

// NewPair loads, or creates, the signing key pair named by the config.
func NewPair(cfg *config.Config) (Pair, error) {
	kp, err := config.KeyPair(cfg)
	if err != nil {
		return Pair{}, err
	}

	jwk := jose.JSONWebKey{
		Key:       kp.CryptoPublicKey(),
		Algorithm: SigningMethod.Alg(),
		Use:       "sig",
	}

	// Key id is the RFC 7638 thumbprint of the public key.
	sum, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return Pair{}, fmt.Errorf("key thumbprint: %w", err)
	}
	jwk.KeyID = fmt.Sprintf("%x", sum)

	return Pair{
		privateKey: kp.PrivateKey(),
		publicKey:  kp.CryptoPublicKey(),
		jwk:        jwk,
	}, nil
}

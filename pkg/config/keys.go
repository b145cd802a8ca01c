package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/keygen"
)

// ErrEmptyKeyPath is returned when the token signing key path is empty.
var ErrEmptyKeyPath = errors.New("empty signing key path")

// KeyPair returns the token signing key pair. The key is generated and
// written to disk when it doesn't exist yet.
func KeyPair(cfg *Config) (*keygen.SSHKeyPair, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.JWT.KeyPath == "" {
		return nil, ErrEmptyKeyPath
	}

	if err := os.MkdirAll(filepath.Dir(cfg.JWT.KeyPath), 0o700); err != nil {
		return nil, err
	}

	return keygen.New(cfg.JWT.KeyPath, keygen.WithKeyType(keygen.Ed25519), keygen.WithWrite())
}

// Package access defines company roles and the capabilities they grant.
package access

import (
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"strings"
)

// Role is the role of a company member.
type Role int

const (
	// NoRole is held by users who are not members of the company.
	NoRole Role = iota

	// UserRole is the role of a regular member.
	UserRole

	// AdminRole is the role of a member promoted by the owner.
	AdminRole

	// OwnerRole is the role of the company creator.
	OwnerRole
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case NoRole:
		return "NONE"
	case UserRole:
		return "USER"
	case AdminRole:
		return "ADMIN"
	case OwnerRole:
		return "OWNER"
	default:
		return "UNKNOWN"
	}
}

// ParseRole parses a role string.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return NoRole
	case "USER":
		return UserRole
	case "ADMIN":
		return AdminRole
	case "OWNER":
		return OwnerRole
	default:
		return Role(-1)
	}
}

var (
	_ encoding.TextMarshaler   = Role(0)
	_ encoding.TextUnmarshaler = (*Role)(nil)
	_ driver.Valuer            = Role(0)
)

// ErrInvalidRole is returned when an invalid role is provided.
var ErrInvalidRole = errors.New("invalid role")

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	l := ParseRole(string(text))
	if l < 0 {
		return ErrInvalidRole
	}

	*r = l

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidRole, src)
	}
}

// Package membership models the lifecycle of company invites and join
// requests. It holds no persistence code: Resolve and Transition decide what
// must happen to an action row and the backend applies the decision.
package membership

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// Status is the state of a membership action.
type Status int

const (
	// StatusUnspecified represents an invalid status.
	StatusUnspecified Status = iota
	// StatusInvited means the company invited the user.
	StatusInvited
	// StatusRequested means the user asked to join the company.
	StatusRequested
	// StatusAccepted means the invite or request was accepted.
	StatusAccepted
	// StatusDeclinedByUser means the user declined an invite.
	StatusDeclinedByUser
	// StatusDeclinedByCompany means the owner declined a request.
	StatusDeclinedByCompany
)

// Type is the direction of a membership action. It is fixed when the action
// is created.
type Type int

const (
	// TypeUnspecified represents an invalid type.
	TypeUnspecified Type = iota
	// TypeInvite is a company initiated action.
	TypeInvite
	// TypeRequest is a user initiated action.
	TypeRequest
)

// ErrInvalidLabel is returned when scanning an unknown status or type.
var ErrInvalidLabel = errors.New("invalid label")

// String returns the label of the status.
func (s Status) String() string {
	switch s {
	case StatusInvited:
		return "INVITED"
	case StatusRequested:
		return "REQUESTED"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusDeclinedByUser:
		return "DECLINED_BY_USER"
	case StatusDeclinedByCompany:
		return "DECLINED_BY_COMPANY"
	case StatusUnspecified:
	}
	return "UNSPECIFIED"
}

// ParseStatus converts a label to a Status.
func ParseStatus(label string) Status {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "INVITED":
		return StatusInvited
	case "REQUESTED":
		return StatusRequested
	case "ACCEPTED":
		return StatusAccepted
	case "DECLINED_BY_USER":
		return StatusDeclinedByUser
	case "DECLINED_BY_COMPANY":
		return StatusDeclinedByCompany
	default:
		return StatusUnspecified
	}
}

// Pending reports whether the action is waiting for an answer.
func (s Status) Pending() bool {
	return s == StatusInvited || s == StatusRequested
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	if *s = ParseStatus(string(text)); *s == StatusUnspecified {
		return fmt.Errorf("%w: status %q", ErrInvalidLabel, text)
	}
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if s == StatusUnspecified {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidLabel, int(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src interface{}) error {
	label, err := scanLabel(src)
	if err != nil {
		return err
	}
	if *s = ParseStatus(label); *s == StatusUnspecified {
		return fmt.Errorf("%w: status %q", ErrInvalidLabel, label)
	}
	return nil
}

// String returns the label of the type.
func (t Type) String() string {
	switch t {
	case TypeInvite:
		return "INVITE"
	case TypeRequest:
		return "REQUEST"
	case TypeUnspecified:
	}
	return "UNSPECIFIED"
}

// ParseType converts a label to a Type.
func ParseType(label string) Type {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "INVITE":
		return TypeInvite
	case "REQUEST":
		return TypeRequest
	default:
		return TypeUnspecified
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	if *t = ParseType(string(text)); *t == TypeUnspecified {
		return fmt.Errorf("%w: type %q", ErrInvalidLabel, text)
	}
	return nil
}

// Value implements driver.Valuer.
func (t Type) Value() (driver.Value, error) {
	if t == TypeUnspecified {
		return nil, fmt.Errorf("%w: type %d", ErrInvalidLabel, int(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *Type) Scan(src interface{}) error {
	label, err := scanLabel(src)
	if err != nil {
		return err
	}
	if *t = ParseType(label); *t == TypeUnspecified {
		return fmt.Errorf("%w: type %q", ErrInvalidLabel, label)
	}
	return nil
}

func scanLabel(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidLabel, src)
	}
}

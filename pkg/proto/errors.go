// Package proto defines the kinded errors reported to clients.
package proto

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how it is reported to clients.
type Kind int

const (
	// KindUnknown is an unclassified error.
	KindUnknown Kind = iota
	// KindNotFound means a referenced user, company, action, or other record
	// doesn't exist.
	KindNotFound
	// KindForbidden means the caller lacks the required relationship to the
	// target.
	KindForbidden
	// KindConflict means the operation violates a state invariant.
	KindConflict
	// KindValidation means the request payload is malformed.
	KindValidation
	// KindUnauthorized means the caller is not authenticated.
	KindUnauthorized
)

// String returns the label of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a client facing error.
type Error struct {
	Kind    Kind
	Message string

	// kindOnly makes errors.Is match any error of the same kind.
	kindOnly bool
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is a kind sentinel matching e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.kindOnly {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// Forbidden returns a KindForbidden error.
func Forbidden(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// Invalid returns a KindValidation error.
func Invalid(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// Unauthenticated returns a KindUnauthorized error.
func Unauthenticated(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

// Kind sentinels. Use errors.Is(err, ErrNotFound) to match any not found
// error.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found", kindOnly: true}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden", kindOnly: true}
	ErrConflict     = &Error{Kind: KindConflict, Message: "conflict", kindOnly: true}
	ErrValidation   = &Error{Kind: KindValidation, Message: "invalid request", kindOnly: true}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized", kindOnly: true}
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = NotFound("user not found")
	// ErrCompanyNotFound is returned when a company is not found.
	ErrCompanyNotFound = NotFound("company not found")
	// ErrActionNotFound is returned when a membership action is not found.
	ErrActionNotFound = NotFound("action not found")
	// ErrMemberNotFound is returned when a user is not a member of the company.
	ErrMemberNotFound = NotFound("member not found")
	// ErrQuizNotFound is returned when a quiz is not found.
	ErrQuizNotFound = NotFound("quiz not found")
	// ErrResultNotFound is returned when there are no results to aggregate.
	ErrResultNotFound = NotFound("no results found")
	// ErrNotificationNotFound is returned when a notification is not found.
	ErrNotificationNotFound = NotFound("notification not found")

	// ErrNotOwner is returned when an owner only operation is called by someone else.
	ErrNotOwner = Forbidden("only the company owner can do this")
	// ErrNotSubject is returned when the caller is not the user an action targets.
	ErrNotSubject = Forbidden("this action belongs to another user")
	// ErrNotMember is returned when the caller is not a member of the company.
	ErrNotMember = Forbidden("you are not a member of this company")
	// ErrNotPermitted is returned when the caller's role lacks the capability.
	ErrNotPermitted = Forbidden("you don't have permission to do this")
	// ErrOwnerCannotLeave is returned when the owner tries to leave their company.
	ErrOwnerCannotLeave = Forbidden("the owner cannot leave the company")
	// ErrCannotKickOwner is returned when the owner is the target of a kick.
	ErrCannotKickOwner = Forbidden("the owner cannot be kicked")
	// ErrWrongPassword is returned on login with a bad password.
	ErrWrongPassword = Forbidden("wrong password")

	// ErrAlreadyInCompany is returned when the user is already a member.
	ErrAlreadyInCompany = Conflict("user is already in company")
	// ErrAlreadyInvited is returned when a pending invite exists.
	ErrAlreadyInvited = Conflict("user is already invited")
	// ErrAlreadyRequested is returned when a pending request exists.
	ErrAlreadyRequested = Conflict("user has already requested to join")
	// ErrDeclinedByUser is returned when re-inviting a user who declined.
	ErrDeclinedByUser = Conflict("user has declined the invitation")
	// ErrSelfInvite is returned when the owner invites themselves.
	ErrSelfInvite = Conflict("you cannot invite yourself")
	// ErrAlreadyAdmin is returned when promoting an admin.
	ErrAlreadyAdmin = Conflict("user is already an admin")
	// ErrNotAdmin is returned when demoting a member who isn't an admin.
	ErrNotAdmin = Conflict("user is not an admin")
	// ErrUserExists is returned when the username or email is taken.
	ErrUserExists = Conflict("user with this email or username already exists")

	// ErrTokenExpired is returned when a token is expired.
	ErrTokenExpired = Unauthenticated("token expired")
	// ErrInvalidToken is returned when a token can't be verified.
	ErrInvalidToken = Unauthenticated("invalid token")
)

package proto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestErrorIsKind(t *testing.T) {
	is := is.New(t)
	err := fmt.Errorf("accept invite: %w", ErrAlreadyInCompany)
	is.True(errors.Is(err, ErrAlreadyInCompany))
	is.True(errors.Is(err, ErrConflict))
	is.True(!errors.Is(err, ErrForbidden))
	is.True(!errors.Is(err, ErrAlreadyInvited))
	is.Equal(KindOf(err), KindConflict)
}

func TestKindOfUnknown(t *testing.T) {
	is := is.New(t)
	is.Equal(KindOf(errors.New("boom")), KindUnknown)
	is.Equal(KindOf(nil), KindUnknown)
	is.Equal(KindUnknown.String(), "unknown")
}

func TestConstructors(t *testing.T) {
	is := is.New(t)
	err := Invalid("question %d needs at least %d options", 3, 2)
	is.Equal(err.Error(), "question 3 needs at least 2 options")
	is.True(errors.Is(err, ErrValidation))
	is.True(errors.Is(Unauthenticated("nope"), ErrUnauthorized))
	is.True(errors.Is(NotFound("x"), ErrNotFound))
	is.True(errors.Is(Forbidden("x"), ErrForbidden))
}

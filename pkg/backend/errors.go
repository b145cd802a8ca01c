package backend

import (
	"errors"

	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/proto"
)

// errConcurrentChange is returned when a compare and set update lost a race
// or a unique index rejected a duplicate row.
var errConcurrentChange = proto.Conflict("the record was changed by another request, try again")

// notFound maps a missing row to notFoundErr and passes other errors through
// WrapError.
func notFound(err error, notFoundErr error) error {
	if err == nil {
		return nil
	}
	err = db.WrapError(err)
	if errors.Is(err, db.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}

// txError translates an error returned from a transaction. Errors already
// carrying a kind are returned as is.
func (d *Backend) txError(err error, op string, keyvals ...interface{}) error {
	if err == nil {
		return nil
	}
	if proto.KindOf(err) != proto.KindUnknown {
		return err
	}

	err = db.WrapError(err)
	switch {
	case errors.Is(err, db.ErrDuplicateKey), errors.Is(err, db.ErrRecordNotFound):
		return errConcurrentChange
	}

	d.logger.Error("error "+op, append(keyvals, "err", err)...)
	return err
}

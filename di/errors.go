package di

import (
	stderrors "errors"
	"fmt"

	"github.com/kbukum/svcreg/errors"
)

// NotFoundError is returned when a key, the root of a dotted key, or any
// property along a dotted path does not exist. Key is always the full key
// the caller asked for.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("di: service %q not found", e.Key)
}

// Unwrap exposes the failure as an *errors.AppError with code NOT_FOUND.
func (e *NotFoundError) Unwrap() error {
	return errors.NotFound("service", e.Key)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

package outfit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks requests rejected before any slot is processed
	ErrInvalidInput = errors.New("invalid outfit request")
	// ErrBaseNotFound means the base product does not exist in the catalog
	ErrBaseNotFound = errors.New("base product not found")
	// ErrNotFound is returned by Catalog.Get for unknown ids
	ErrNotFound = errors.New("catalog item not found")
)

// InputError is a user-facing rejection of an outfit request
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err should be shown to the caller as a bad request
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

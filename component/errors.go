package component

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// request is missing or carries malformed required fields
	ErrBadRequest = errors.New("bad request")
)

// ErrMissingField reports a required create-release field that was absent.
func ErrMissingField(name string) error {
	return fmt.Errorf("missing required field %q: %w", name, ErrBadRequest)
}

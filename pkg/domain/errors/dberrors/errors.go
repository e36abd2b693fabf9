package dberrors

import (
	"errors"
	"fmt"
)

// ErrMissing is wrapped by errors which mean "the requested record does not exist".
var ErrMissing = errors.New("missing")

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return ErrMissing
}

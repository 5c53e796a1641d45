package services

import (
	"errors"
	"fmt"
)

// ErrNotFound means a provider has no usable data for the card: a 404, an
// empty search result, or a response whose pricing block is absent. The
// resolver advances to the next provider on this error.
var ErrNotFound = errors.New("card not found")

// TransientError wraps a network-level failure (timeout, connection error,
// 5xx). The resolver treats it like ErrNotFound after the client's own retry
// budget is spent; it never aborts a run.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

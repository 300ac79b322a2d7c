package api

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch is returned by Price.Add when the two prices are not
// denominated in the same currency.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// MalformedInputError reports an aggregator response that is internally
// inconsistent: a required container is missing, an offer references an
// identifier absent from the response's own indices, or two merged documents
// collide on an identifier. It is the hard failure class; lookups of unknown
// identifiers are signaled with nil/empty results instead.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed search response: " + e.Reason
}

// Malformedf builds a MalformedInputError from a format string.
func Malformedf(format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsMalformedInput reports whether err is (or wraps) a MalformedInputError.
func IsMalformedInput(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}

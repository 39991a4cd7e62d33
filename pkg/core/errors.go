package core

import "github.com/cockroachdb/errors"

// Recoverable conditions. Callers skip the offending element and log.
var (
	ErrNotFound = errors.New("note not found")
	ErrReadOnly = errors.New("store is in read-only mode")
)

// Invariant violations. They abort the current report pass.
var (
	ErrUnknownNamespace     = errors.New("unknown tag namespace")
	ErrMultiplePredecessors = errors.New("revision has more than one predecessor")
	ErrRevisionCycle        = errors.New("revision chain loops back on itself")
	ErrMultipleTraits       = errors.New("praxis carries more than one trait tag")
	ErrMissingField         = errors.New("required field is missing")
	ErrDanglingReference    = errors.New("reference points to a missing note")
	ErrUnsupportedType      = errors.New("note type is not supported here")
	ErrInvalidDomain        = errors.New("domain note is malformed")
)

var fatal = []error{
	ErrUnknownNamespace,
	ErrMultiplePredecessors,
	ErrRevisionCycle,
	ErrMultipleTraits,
	ErrMissingField,
	ErrDanglingReference,
	ErrUnsupportedType,
	ErrInvalidDomain,
}

// IsFatal reports whether err wraps an invariant violation.
func IsFatal(err error) bool {
	return err != nil && errors.IsAny(err, fatal...)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

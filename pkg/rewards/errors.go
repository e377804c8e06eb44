package rewards

import (
	"errors"
	"fmt"

	"github.com/chris/allowance-ledger/pkg/storage"
)

// Error kinds. Every error returned by the Service matches exactly one of them with errors.Is.
var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when a referenced todo, pending entry or account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write found the item in an unexpected state.
	ErrConflict = errors.New("conflict")

	// ErrStorage is returned when the store was unreachable or rejected the request.
	ErrStorage = errors.New("storage error")
)

// Error carries the kind, the failing operation and the underlying cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Details returns the cause's message, or "" if there is none.
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func validationError(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(op, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// storageError translates a storage layer error into the matching kind.
func storageError(op, msg string, err error) error {
	kind := ErrStorage
	switch {
	case errors.Is(err, storage.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, storage.ErrConflict),
		errors.Is(err, storage.ErrConcurrentUpdate),
		errors.Is(err, storage.ErrAlreadyClaimed):
		kind = ErrConflict
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

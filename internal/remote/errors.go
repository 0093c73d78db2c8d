package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport means the request could not complete: network failure or a non-2xx status.
	ErrTransport = errors.New("transport failure")
	// ErrDecode means the service answered but the body could not be understood.
	ErrDecode = errors.New("decode failure")
)

// Error describes a failed call to the course service.
type Error struct {
	Op     string
	Kind   error
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportError(op string, status int, err error) error {
	return &Error{Op: op, Kind: ErrTransport, Status: status, Err: err}
}

func decodeError(op string, err error) error {
	return &Error{Op: op, Kind: ErrDecode, Err: err}
}

// Package apperr categorizes the errors this tool can surface to its
// caller, so the exit code follows directly from the error kind instead
// of being decided ad hoc at each call site.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories: Config errors are caught before
// any component starts; Resource and Host errors are runtime
// initialization failures; Faulted errors are per-mapping and never
// escape a component (they flip a record's dead flag instead), so Kind
// never needs a Faulted value here.
type Kind int

const (
	Config Kind = iota
	Resource
	Host
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Resource:
		return "resource"
	case Host:
		return "host"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with the Kind that determines how the
// caller should exit.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// ExitCode maps err to the process exit code this tool documents: 0 for
// a nil error, 1 for a Config error, 2 for anything else (Resource, Host,
// or an error that arrived without a Kind at all, which is treated as a
// runtime failure rather than silently succeeding).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind == Config {
		return 1
	}
	return 2
}

// Package errors defines the closed set of failure kinds a run can end with
// and a typed error that carries the kind alongside the failing operation.
//
// Checking errors:
//
//	if errors.KindOf(err) == errors.KindNotFound { ... }
//
//	var e *errors.Error
//	if errors.As(err, &e) { ... }
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not built by this package.
	KindUnknown Kind = iota
	// KindNotFound means the input path does not exist.
	KindNotFound
	// KindPermission means the input path exists but cannot be read.
	KindPermission
	// KindWrite means the report destination could not be created or written.
	KindWrite
	// KindDecode means the input bytes could not be decoded under strict decoding.
	KindDecode
	// KindIO covers every other I/O failure.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindWrite:
		return "write"
	case KindDecode:
		return "decode"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its Kind.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so callers can
// match with errors.Is(err, &errors.Error{Kind: errors.KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Path == "" && t.Err == nil
}

// E builds an *Error.
func E(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Errorf builds an *Error with a formatted cause.
func Errorf(kind Kind, op, path, format string, args ...any) *Error {
	return E(kind, op, path, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FromFS classifies a filesystem error returned while reading path.
func FromFS(op, path string, err error) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return E(KindNotFound, op, path, err)
	case errors.Is(err, fs.ErrPermission):
		return E(KindPermission, op, path, err)
	default:
		return E(KindIO, op, path, err)
	}
}

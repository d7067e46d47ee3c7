// Package errs provides structured errors carrying the operation that
// failed and a machine-checkable kind.
package errs

import (
	"errors"
	"fmt"
)

// Op describes the operation that produced an error, e.g. "layout.Split".
type Op string

// Kind classifies an error for callers that branch on failure mode.
type Kind int

const (
	Unknown Kind = iota
	NotFound
	Invalid
	InvalidCommand
	CorruptLayout
	Network
	Auth
	IO
	Config
	Timeout
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Invalid:
		return "invalid"
	case InvalidCommand:
		return "invalid command"
	case CorruptLayout:
		return "corrupt layout"
	case Network:
		return "network error"
	case Auth:
		return "auth error"
	case IO:
		return "i/o error"
	case Config:
		return "config error"
	case Timeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type used throughout the module.
type Error struct {
	Op   Op
	Kind Kind
	Err  error
	Msg  string
}

func (e *Error) Error() string {
	s := string(e.Op)
	if e.Kind != Unknown {
		if s != "" {
			s += ": "
		}
		s += e.Kind.String()
	}
	if e.Msg != "" {
		if s != "" {
			s += ": "
		}
		s += e.Msg
	}
	if e.Err != nil {
		if s != "" {
			s += ": "
		}
		s += e.Err.Error()
	}
	if s == "" {
		return "unknown error"
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from any combination of Op, Kind, string (message),
// and error (cause). Later arguments of the same type win.
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Msg = a
		case *Error:
			e.Err = a
		case error:
			e.Err = a
		default:
			e.Msg = fmt.Sprintf("%v", a)
		}
	}
	return e
}

// Is reports whether err (or anything it wraps) carries the given kind.
func Is(kind Kind, err error) bool {
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			err = errors.Unwrap(err)
			continue
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// Unknown if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind != Unknown {
				return e.Kind
			}
			err = e.Err
			continue
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

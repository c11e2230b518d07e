// Package errors defines the typed error kinds reported by the editor core.
//
// Every failure surfaced to a caller carries a Kind and a human-readable
// message. Callers branch on the kind with Is or KindOf; the message is meant
// to be shown to the user unchanged.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an editor error.
type Kind int

const (
	// Unknown is the kind of errors that did not originate in the editor core.
	Unknown Kind = iota
	InvalidFormat
	UnsupportedFormat
	IncompatibleImages
	UnknownTransformation
	NothingToUndo
	NoActiveSession
	NotFound
	IO
)

var kindNames = map[Kind]string{
	Unknown:               "unknown",
	InvalidFormat:         "invalid format",
	UnsupportedFormat:     "unsupported format",
	IncompatibleImages:    "incompatible images",
	UnknownTransformation: "unknown transformation",
	NothingToUndo:         "nothing to undo",
	NoActiveSession:       "no active session",
	NotFound:              "not found",
	IO:                    "i/o error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an editor error with a kind, a user-facing message and an
// optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Predefined errors
var (
	ErrNothingToUndo = &Error{
		Kind: NothingToUndo,
		Msg:  "no transformations to undo",
	}

	ErrNoActiveSession = &Error{
		Kind: NoActiveSession,
		Msg:  "no active session; use 'load <file...>' to start a new session or switch to an existing one",
	}
)

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

// KindOf returns the kind of the outermost editor error in err's chain, or
// Unknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err's chain contains an editor error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

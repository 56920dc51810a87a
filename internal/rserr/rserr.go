// Package rserr classifies the errors a ruleset load can fail with.
//
// Every fatal load error wraps exactly one of the Err constants, so a caller
// can tell a malformed file apart from a capability problem with errors.Is and
// without parsing messages. The Error type carries a message along with any
// number of causes; errors.Is on an Error matches every one of them.
package rserr

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrMalformed  = errors.New("malformed ruleset data")
	ErrNotFound   = errors.New("no such entry")
	ErrDuplicate  = errors.New("name is already in use")
	ErrCapability = errors.New("ruleset capability problem")
	ErrVersion    = errors.New("ruleset format version problem")
	ErrExhausted  = errors.New("too many entries")
)

// Error is a message with zero or more causes. Its text is the message
// followed by the text of the first cause; the remaining causes only take part
// in errors.Is.
//
// Create one with New or Exhausted.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	switch {
	case len(e.cause) == 0:
		return e.msg
	case e.msg == "":
		return e.cause[0].Error()
	default:
		return e.msg + ": " + e.cause[0].Error()
	}
}

// Unwrap returns the causes of e, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) == 0 {
		return nil
	}
	return e.cause
}

// Is reports whether target is an Error with the same message and causes as e.
// Matching against the causes themselves is left to errors.Is, which walks
// Unwrap.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}
	return e.msg == other.msg && slices.Equal(e.cause, other.cause)
}

// New returns an Error with the given message that wraps every one of causes.
func New(msg string, causes ...error) Error {
	return Error{msg: msg, cause: slices.Clone(causes)}
}

// Exhausted returns an Error for a table that has no room left for another
// what. max is included in the message.
func Exhausted(what string, max int) Error {
	return New(fmt.Sprintf("too many %s (max %d)", what, max), ErrExhausted)
}

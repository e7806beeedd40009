// Package errors implements module-scoped coded errors.
//
// Every error is registered once under a (module, code) pair. Wrapping
// it with WithContext keeps it matchable with Is, and Code recovers the
// pair from any wrapped chain for logging.
package errors

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// UnknownModule is the module reported for errors that were not
	// created by New.
	UnknownModule = "unknown"

	// CodeNoError is the reserved code of a nil error.
	CodeNoError = 0
)

var errUnknownError = New(UnknownModule, 1, "unknown error")

// Re-exports so this package can be used as a replacement for errors.
var (
	As = errors.As
	Is = errors.Is
)

// registry maps "module-code" keys to their *codedError.
var registry sync.Map

type codedError struct {
	module string
	code   uint32
	msg    string
}

func (e *codedError) Error() string {
	return e.msg
}

type contextError struct {
	err     error
	context string
}

func (e *contextError) Error() string {
	return e.err.Error() + ": " + e.context
}

func (e *contextError) Unwrap() error {
	return e.err
}

// New registers and returns a coded error. It panics if the (module,
// code) pair is taken or code is CodeNoError.
func New(module string, code uint32, msg string) error {
	if code == CodeNoError {
		panic(fmt.Errorf("errors: code %d is reserved", CodeNoError))
	}

	e := &codedError{
		module: module,
		code:   code,
		msg:    msg,
	}
	key := fmt.Sprintf("%s-%d", module, code)
	if prev, loaded := registry.LoadOrStore(key, e); loaded {
		panic(fmt.Errorf("errors: %s already registered as '%s'", key, prev))
	}
	return e
}

// WithContext wraps err with a context string. An empty context returns
// err unchanged.
func WithContext(err error, context string) error {
	if context == "" {
		return err
	}
	return &contextError{
		err:     err,
		context: context,
	}
}

// WithContextf is WithContext with a formatted context string.
func WithContextf(err error, format string, a ...interface{}) error {
	return WithContext(err, fmt.Sprintf(format, a...))
}

// Context returns the outermost context attached with WithContext.
func Context(err error) string {
	var ce *contextError
	if err != nil && As(err, &ce) {
		return ce.context
	}
	return ""
}

// Code returns the module and code of the first coded error in err's
// chain. A nil error yields ("", CodeNoError), an uncoded one the
// UnknownModule pair.
func Code(err error) (string, uint32) {
	if err == nil {
		return "", CodeNoError
	}

	var ce *codedError
	if !As(err, &ce) {
		ce = errUnknownError.(*codedError)
	}
	return ce.module, ce.code
}

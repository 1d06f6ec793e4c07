package pkg

import (
	"fmt"
	"strings"
)

// Error is an error chain ordered from innermost to outermost.
type Error []error

var (
	// ErrReadInput is wrapped around I/O failures reading an input file.
	ErrReadInput = MakeErrorf("failed to read input")
	// ErrWriteOutput is wrapped around I/O failures writing an output file.
	ErrWriteOutput = MakeErrorf("failed to write output")
	// ErrInvalidFormat is wrapped with the rejected format name.
	ErrInvalidFormat = MakeErrorf("invalid format")
	// ErrJSONMarshal is wrapped around JSON encoding failures.
	ErrJSONMarshal = MakeErrorf("JSON marshal error")
	// ErrYAMLMarshal is wrapped around YAML encoding failures.
	ErrYAMLMarshal = MakeErrorf("YAML marshal error")
)

// MakeError flattens errs into a chain, dropping nil values. The first
// argument is the innermost error.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf returns a single-element chain holding a formatted error.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the chain with ": ", innermost first.
func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}

	return strings.Join(parts, ": ")
}

// Wrap returns the chain extended with errs.
func (e Error) Wrap(errs ...error) Error {
	return append(e[:len(e):len(e)], errs...)
}

// Wrapf returns the chain extended with a formatted error.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap exposes the chain to [errors.Is] and [errors.As].
func (e Error) Unwrap() []error { return e }

// Is reports whether target is a chain with identical elements, so that a
// sentinel chain matches any chain built from it.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[i] != t[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors flattens err and everything it wraps, innermost first.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch u := err.(type) {
	case Error:
		return append(chain, u...)
	case interface{ Unwrap() []error }:
		for _, w := range u.Unwrap() {
			chain = append(chain, UnwrapErrors(w)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(u.Unwrap())...)
	}

	return append(chain, err)
}

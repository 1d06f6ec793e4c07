package cxx

import (
	"errors"
	"log/slog"
	"strings"
)

// Analysis errors. None of them aborts a run: they are logged and recorded
// as [Diagnostic] values on the [Tree] that produced them.
var (
	ErrLookupFailure           = NewError("symbol lookup failed")
	ErrArityMismatch           = NewError("template argument count mismatch")
	ErrAmbiguousSpecialization = NewError("ambiguous template specialization")
	ErrUnknownTemplate         = NewError("no template declared with name")
	ErrDuplicateInstance       = NewError("template instance already exported under another name")
)

// Error is an error with structured logging attributes.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so that
// copies made with [Error.With] still match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	a := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(a, e.attrs)
	copy(a[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: a}
}

// Attrs returns the attributes attached with [Error.With].
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Diagnostic is a non-fatal problem found while analyzing a tree.
type Diagnostic struct {
	Location Location
	Err      error
}

func (d Diagnostic) Error() string {
	if d.Location.File == "" && d.Location.Line == 0 {
		return d.Err.Error()
	}

	return d.Location.String() + ": " + d.Err.Error()
}

func (d Diagnostic) Unwrap() error { return d.Err }

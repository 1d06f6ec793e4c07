package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoTree      = errors.New("no declarations loaded")
	ErrUnknown     = errors.New("unknown command")
	ErrUsage       = errors.New("missing argument")
	ErrNotFound    = errors.New("no declaration named")
	ErrNotScope    = errors.New("declaration has no scope")
	errQuit        = errors.New("quit")
)

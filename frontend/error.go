package frontend

import "github.com/ardnew/pxx/cxx"

// Frontend errors. Syntax errors are reported as diagnostics on the tree
// unless the walker runs with [WithStrict].
var (
	ErrSyntax      = cxx.NewError("syntax error")
	ErrUnsupported = cxx.NewError("unsupported declaration")
)

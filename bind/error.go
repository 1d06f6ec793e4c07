package bind

import "github.com/ardnew/pxx/pkg"

var (
	// ErrInvalidPattern is wrapped around glob patterns that fail to compile.
	ErrInvalidPattern = pkg.MakeErrorf("invalid match pattern")
	// ErrSettings is wrapped around failures decoding binding settings.
	ErrSettings = pkg.MakeErrorf("invalid binding settings")
	// ErrRender is wrapped around template execution failures.
	ErrRender = pkg.MakeErrorf("failed to render module")
)

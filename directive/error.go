package directive

import (
	"errors"
	"log/slog"
	"strconv"
)

// ErrSyntax matches every [SyntaxError].
var ErrSyntax = errors.New("invalid pxx directive")

// SyntaxError reports a directive line that could not be parsed.
type SyntaxError struct {
	// Line is the 1-based line of the directive within the folded comment.
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	msg := ErrSyntax.Error() + " (line " + strconv.Itoa(e.Line) + ")"

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// LogValue implements [slog.LogValuer].
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrSyntax.Error()),
		slog.Int("line", e.Line),
		slog.String("text", e.Text),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

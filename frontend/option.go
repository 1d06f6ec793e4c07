package frontend

import (
	"github.com/ardnew/pxx/directive"
	"github.com/ardnew/pxx/log"
)

// Option configures a call to [Parse].
type Option func(*walker)

// WithDirectives sets the parser used for comment directives. Without it
// a parser is built per call.
func WithDirectives(p *directive.Parser) Option {
	return func(w *walker) { w.dirs = p }
}

// WithLogger directs walker traces and warnings to l.
func WithLogger(l log.Logger) Option {
	return func(w *walker) { w.log = l }
}

// WithStrict makes syntax errors in the input fatal.
func WithStrict(strict bool) Option {
	return func(w *walker) { w.strict = strict }
}

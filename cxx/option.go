package cxx

import "github.com/ardnew/pxx/log"

// Option configures a [Tree].
type Option func(*Tree)

// WithLogger directs lookup traces and instantiation warnings to l.
func WithLogger(l log.Logger) Option {
	return func(t *Tree) { t.log = l }
}

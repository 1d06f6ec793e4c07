package bind

import (
	"github.com/gobwas/glob"

	"github.com/ardnew/pxx/log"
)

// Option configures [Describe].
type Option func(*describer)

// WithName sets the Python module name recorded in the descriptor.
func WithName(name string) Option {
	return func(d *describer) { d.module.Name = name }
}

// WithLogger sets the logger. The tree's logger is used by default.
func WithLogger(l log.Logger) Option {
	return func(d *describer) {
		d.log = l
		d.hasLog = true
	}
}

// WithMatch restricts the described classes and functions to those whose
// qualified name matches one of the glob patterns. A "*" does not cross
// "::"; use "**" to match across scopes. No patterns means no restriction.
func WithMatch(patterns ...string) Option {
	return func(d *describer) {
		for _, p := range patterns {
			g, err := glob.Compile(p, ':')
			if err != nil {
				d.errs = append(d.errs, ErrInvalidPattern.Wrapf("%q: %w", p, err))

				continue
			}

			d.match = append(d.match, g)
		}
	}
}

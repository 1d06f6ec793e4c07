// Package profile starts optional runtime profiling via
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the build tag "pprof":
//
//	go build -tags pprof .
//	pxx --pprof-mode cpu generate widget.h
//	go tool pprof "$XDG_CACHE_HOME/pxx/pprof/cpu.pprof"
//
// Without the tag [Modes] is empty and [Profiler.Start] does nothing.
package profile

// Tag is the build tag that enables profiling. It also names the default
// output subdirectory.
const Tag = "pprof"

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Dir receives the profile files.
	Dir string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling. The returned Stopper is always non-nil and safe
// to call, including when profiling is disabled or Mode is unknown.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}

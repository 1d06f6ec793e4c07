// Package cli contains the command line interface for pxx.
//
// # Usage
//
//	pxx [flags] <command> [args]
//
// Commands:
//
//   - dump: print the scope tree of a C++ file
//   - export: print binding descriptors as JSON or YAML
//   - generate: render a pybind11 module
//   - watch: regenerate modules whenever headers change
//   - repl: explore scopes, lookups and type resolution interactively
//   - init: write the current flag values to the configuration file
//
// # Configuration
//
// Flags are read from $XDG_CONFIG_HOME/pxx/config.yaml (and config.json)
// before the command line is applied. The YAML document maps flag names to
// values; see [resolve].
//
// # Search Path
//
// Input files and binding settings files that do not exist relative to the
// working directory are looked up in the directories given with -I, then
// in the entries of $CPATH.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: include the caller location
//   - --log-pretty: colorize text or indent JSON
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: profile output directory (default
//     $XDG_CACHE_HOME/pxx/pprof)
//
// # Examples
//
//	# Bindings for a header, module name taken from the output file
//	pxx generate geometry.h --output-file build/geometry.cpp
//
//	# Descriptors of the geo namespace only
//	pxx export geometry.h --format yaml --match 'geo::**'
//
//	# Debug logging with CPU profiling
//	pxx --log-level=debug --pprof-mode=cpu generate geometry.h
package cli

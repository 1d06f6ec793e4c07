// Package log wraps [log/slog] with functional options, a trace level and
// colorized or indented output.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("scope added", slog.String("prefix", "a::b::"))
//
// The package-level functions ([Info], [Warn], ...) use a default logger
// that [Config] reconfigures. A zero [Logger] discards all records, so
// components may hold one unconditionally.
package log

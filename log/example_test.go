package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/pxx/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("registered", slog.String("symbol", "ns::A"), slog.Int("overloads", 2))
	logger.Debug("not shown at the default level")
	// Output:
	// level=INFO msg=registered symbol=ns::A overloads=2
}

func Example_withContext() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn))

	logger.WarnContext(context.Background(), "arity mismatch",
		slog.String("template", "Sum"),
		slog.Int("want", 2),
		slog.Int("got", 1),
	)
}

package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/pxx/cli/cmd/repl"
	"github.com/ardnew/pxx/log"
)

// Repl explores the scopes of a C++ file interactively.
type Repl struct {
	Source `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache namespace undefined")
	}

	tree, path, err := r.load(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, tree, cacheDir, log.With(slog.String("file", path)))
}

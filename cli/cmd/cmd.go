package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/directive"
	"github.com/ardnew/pxx/frontend"
	"github.com/ardnew/pxx/log"
)

type (
	contextKey    struct{}
	searchPathKey struct{}
)

// WithContext returns a context carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithSearchPath returns a context carrying the include directories used
// to locate input and settings files.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, slices.Clone(dirs))
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// locate returns name if it exists, or the first match of name below a
// directory of the search path. Absolute names are never searched.
func locate(ctx context.Context, name string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, nil
	}

	for _, dir := range searchPathFrom(ctx) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			log.Default().TraceContext(ctx, "located file",
				slog.String("name", name),
				slog.String("path", path),
			)

			return path, nil
		}
	}

	return "", ErrNotFound.With(
		slog.String("name", name),
		slog.Any("search_path", searchPathFrom(ctx)),
	)
}

// Source selects the C++ file a command analyzes.
type Source struct {
	File   string `arg:""                                                      help:"C++ source or header file." name:"file"`
	Strict bool   `default:"true"                                              help:"Fail on syntax errors instead of reporting them." negatable:""`
}

// load parses the source file and instantiates its templates.
func (s *Source) load(ctx context.Context) (*cxx.Tree, string, error) {
	path, err := locate(ctx, s.File)
	if err != nil {
		return nil, "", err
	}

	return parseFile(ctx, path, s.Strict)
}

func parseFile(ctx context.Context, path string, strict bool) (*cxx.Tree, string, error) {
	logger := log.Default().With(slog.String("file", path))

	tree := cxx.NewTree(cxx.WithLogger(logger))

	err := frontend.ParseFile(ctx, tree, path,
		frontend.WithLogger(logger),
		frontend.WithDirectives(directive.New(directive.WithLogger(logger))),
		frontend.WithStrict(strict),
	)
	if err == nil {
		err = tree.Instantiate(ctx)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, path, err
		}

		return nil, path, ErrParse.With(slog.String("file", path)).Wrap(err)
	}

	logger.DebugContext(ctx, "parsed translation unit",
		slog.Int("diagnostics", len(tree.Diagnostics())),
	)

	return tree, path, nil
}

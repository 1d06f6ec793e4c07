package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardnew/pxx/bind"
	"github.com/ardnew/pxx/cli/cmd/watch"
	"github.com/ardnew/pxx/log"
)

// generatedSuffix is appended to a header's stem to name its module source.
const generatedSuffix = "_pxx.cpp"

// Watch regenerates the module source of every header that changes below
// a directory.
type Watch struct {
	Dir string `arg:"" default:"." help:"Directory to watch." type:"existingdir"`

	Exclude   []string      `help:"Skip files and directories whose base name matches a glob." placeholder:"GLOB" sep:","   short:"x"`
	OutputDir string        `help:"Write generated sources here instead of next to each header." name:"output-dir" placeholder:"DIR" type:"existingdir"`
	Settings  string        `help:"TOML binding settings, looked up in the search path."         placeholder:"FILE" short:"s"`
	Match     []string      `help:"Only bind qualified names matching a glob."                  placeholder:"GLOB" sep:","`
	Debounce  time.Duration `default:"250ms" help:"Quiet period before regenerating."`
	Initial   bool          `default:"true" help:"Generate every header once before watching." negatable:""`
	Strict    bool          `help:"Skip headers with syntax errors instead of binding what parses." negatable:""`
}

// Run executes the watch command until ctx is canceled.
func (c *Watch) Run(ctx context.Context) error {
	settings, err := (&Generate{Settings: c.Settings}).settings(ctx)
	if err != nil {
		return err
	}

	w, err := watch.New(
		func(paths []string) { c.regenerate(ctx, paths, settings) },
		watch.WithDebounce(c.Debounce),
		watch.WithExclude(c.Exclude...),
		watch.WithLogger(log.Default()),
	)
	if err != nil {
		return ErrWatch.With(slog.String("dir", c.Dir)).Wrap(err)
	}
	defer w.Close()

	if err := w.Add(c.Dir); err != nil {
		return ErrWatch.With(slog.String("dir", c.Dir)).Wrap(err)
	}

	if c.Initial {
		c.regenerate(ctx, w.Headers(c.Dir), settings)
	}

	log.InfoContext(ctx, "watching for header changes", slog.String("dir", c.Dir))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return ErrWatch.With(slog.String("dir", c.Dir)).Wrap(err)
	}

	return nil
}

// regenerate writes the module source of each header. Failures are logged
// so one broken header does not stop the watch.
func (c *Watch) regenerate(ctx context.Context, headers []string, settings bind.Settings) {
	for _, header := range headers {
		if ctx.Err() != nil {
			return
		}

		out := c.outputPath(header)

		if _, err := os.Stat(header); err != nil {
			log.DebugContext(ctx, "header removed", slog.String("header", header))

			continue
		}

		written, err := c.generate(ctx, header, out, settings)

		switch {
		case err != nil:
			log.ErrorContext(ctx, "regenerate failed",
				slog.String("header", header),
				slog.Any("error", err),
			)
		case written:
			log.InfoContext(ctx, "regenerated",
				slog.String("header", header),
				slog.String("output", out),
			)
		default:
			log.DebugContext(ctx, "nothing exported", slog.String("header", header))
		}
	}
}

// generate writes the module source of header to out, unless nothing in
// the header is bound.
func (c *Watch) generate(ctx context.Context, header, out string, settings bind.Settings) (bool, error) {
	tree, _, err := parseFile(ctx, header, c.Strict)
	if err != nil {
		return false, err
	}

	var b strings.Builder

	n, err := render(ctx, &b, tree, moduleName("", header), c.Match, settings)
	if err != nil || n == 0 {
		return false, err
	}

	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return false, ErrGenerate.With(slog.String("file", out)).Wrap(err)
	}

	return true, nil
}

// outputPath returns the generated source path of header.
func (c *Watch) outputPath(header string) string {
	dir := c.OutputDir
	if dir == "" {
		dir = filepath.Dir(header)
	}

	base := filepath.Base(header)

	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+generatedSuffix)
}

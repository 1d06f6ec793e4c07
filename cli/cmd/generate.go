package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/pxx/bind"
	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/log"
)

// Generate writes the pybind11 module source of a C++ file.
type Generate struct {
	Source `embed:""`

	ModuleName string   `help:"Python module name (default: base name of the output or input file)." name:"module-name"`
	OutputFile string   `help:"Write to file instead of stdout."                                     name:"output-file" placeholder:"FILE" short:"o" type:"path"`
	Settings   string   `help:"TOML binding settings, looked up in the search path."                 placeholder:"FILE"  short:"s"`
	Match      []string `help:"Only bind qualified names matching a glob."                           placeholder:"GLOB"  sep:","`
}

// Run executes the generate command.
func (g *Generate) Run(ctx context.Context) (err error) {
	settings, err := g.settings(ctx)
	if err != nil {
		return err
	}

	if g.OutputFile != "" {
		if dir := filepath.Dir(g.OutputFile); !isDir(dir) {
			return ErrOutputDir.With(slog.String("dir", dir))
		}
	}

	tree, path, err := g.load(ctx)
	if err != nil {
		return err
	}

	name := g.ModuleName
	if name == "" {
		name = moduleName(g.OutputFile, path)
	}

	if g.OutputFile == "" {
		_, err = render(ctx, os.Stdout, tree, name, g.Match, settings)

		return err
	}

	f, err := os.Create(g.OutputFile)
	if err != nil {
		return ErrGenerate.With(slog.String("file", g.OutputFile)).Wrap(err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = ErrGenerate.With(slog.String("file", g.OutputFile)).Wrap(cerr)
		}
	}()

	_, err = render(ctx, f, tree, name, g.Match, settings)

	return err
}

func (g *Generate) settings(ctx context.Context) (bind.Settings, error) {
	if g.Settings == "" {
		return bind.Settings{}, nil
	}

	path, err := locate(ctx, g.Settings)
	if err != nil {
		return bind.Settings{}, err
	}

	s, err := bind.LoadSettings(path)
	if err != nil {
		return bind.Settings{}, ErrGenerate.With(slog.String("settings", path)).Wrap(err)
	}

	log.DebugContext(ctx, "loaded binding settings", slog.Any("settings", s))

	return s, nil
}

// render describes tree and writes its module source to w. Settings take
// precedence over name, and match patterns from both are combined. It
// reports the number of bound classes and functions.
func render(
	ctx context.Context,
	w io.Writer,
	tree *cxx.Tree,
	name string,
	match []string,
	settings bind.Settings,
) (int, error) {
	m, err := bind.Describe(tree,
		bind.WithName(name),
		bind.WithMatch(slices.Concat(match, settings.Match)...),
	)
	if err != nil {
		return 0, ErrDescribe.Wrap(err)
	}

	if err := bind.NewWriter().Write(w, m, settings); err != nil {
		return 0, ErrGenerate.With(slog.String("module", name)).Wrap(err)
	}

	n := len(m.Classes) + len(m.Functions)

	log.DebugContext(ctx, "generated module",
		slog.String("module", m.Name),
		slog.Int("classes", len(m.Classes)),
		slog.Int("functions", len(m.Functions)),
	)

	return n, nil
}

// moduleName returns the base name of output, or of input when output is
// empty, without its extension.
func moduleName(output, input string) string {
	path := output
	if path == "" {
		path = input
	}

	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

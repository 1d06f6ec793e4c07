package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/pxx/bind"
)

// Export prints the binding descriptors of a C++ file.
type Export struct {
	Source `embed:""`

	Format     string   `default:"json" enum:"json,yaml"                                help:"Output format (${enum})." short:"f"`
	Indent     int      `default:"2"    help:"Indent width; zero selects compact output." short:"n"`
	Match      []string `help:"Only export qualified names matching a glob (\"*\" stays within one scope)." placeholder:"GLOB" sep:","`
	ModuleName string   `help:"Python module name recorded in the descriptor."                              name:"module-name"`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) error {
	tree, path, err := e.load(ctx)
	if err != nil {
		return err
	}

	name := e.ModuleName
	if name == "" {
		name = moduleName("", path)
	}

	m, err := bind.Describe(tree, bind.WithName(name), bind.WithMatch(e.Match...))
	if err != nil {
		return ErrDescribe.With(slog.String("file", path)).Wrap(err)
	}

	if e.Format == "yaml" {
		return m.FormatYAML(ctx, os.Stdout, e.Indent)
	}

	return m.FormatJSON(os.Stdout, e.Indent)
}

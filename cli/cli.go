package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pxx/cli/cmd"
	"github.com/ardnew/pxx/pkg"
)

// CLI is the top-level command-line interface for pxx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string `help:"Add a directory to the search path for inputs and settings files (also read from $$CPATH)." name:"include" placeholder:"DIR" sep:"," short:"I" type:"path"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Init     cmd.Init     `cmd:"" help:"Write the current flags to the configuration file."`
	Dump     cmd.Dump     `cmd:"" help:"Print the declarations of a C++ file."`
	Export   cmd.Export   `cmd:"" help:"Print binding descriptors as JSON or YAML."`
	Generate cmd.Generate `cmd:"" help:"Generate pybind11 module source."`
	Watch    cmd.Watch    `cmd:"" help:"Regenerate bindings when headers change."`
	Repl     cmd.Repl     `cmd:"" help:"Explore the scopes of a C++ file interactively."`
}

// Run executes the pxx CLI with the given context and arguments. The exit
// function is called with the exit code when kong terminates early, for
// example after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath("config.json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Include))

	cli.Log.start(ctx)

	// no-op unless built with tag pprof and a mode is selected
	defer cli.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}

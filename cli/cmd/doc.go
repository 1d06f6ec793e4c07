// Package cmd implements the pxx subcommands. Each command is a kong
// command struct whose Run method receives the [context.Context] prepared
// by package cli.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)

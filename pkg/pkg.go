// Package pkg holds project metadata and helpers shared by every command.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

const (
	// Name is the command name. It appears in help text and names the
	// configuration and cache directories.
	Name = "pxx"
	// Description summarizes the command for help output.
	Description = "Generate Python bindings from annotated C++ headers"
)

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

// AuthorInfo names one author of the project.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

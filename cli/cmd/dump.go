package cmd

import (
	"context"
	"os"
)

// Dump prints the scope tree of a C++ file.
type Dump struct {
	Source `embed:""`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	tree, _, err := d.load(ctx)
	if err != nil {
		return err
	}

	return tree.Dump(os.Stdout)
}

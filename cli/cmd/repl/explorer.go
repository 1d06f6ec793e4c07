package repl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ardnew/pxx/cxx"
)

// command describes one REPL command.
type command struct {
	name  string
	args  string
	usage string
}

var commands = []command{
	{"lookup", "NAME", "Find the declaration NAME refers to from the current scope"},
	{"resolve", "TYPE", "Fully qualify the names in a type spelling"},
	{"cd", "[SCOPE]", "Enter a namespace or class; \"..\" goes up, no argument goes to ::"},
	{"ls", "[SCOPE]", "List the declarations of a scope"},
	{"dump", "[NAME]", "Print a declaration, or the current scope, as a tree"},
	{"clear", "", "Clear screen"},
	{"help", "", "Print this cruft"},
	{"quit", "", "Exit REPL"},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands:\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %-8s %s\n", c.name, c.args, c.usage)
	}

	b.WriteString(`
Usage:
  Names complete automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// explorer holds the declaration tree and the scope commands run in.
type explorer struct {
	tree  *cxx.Tree
	scope *cxx.Scope
	names []string
}

func newExplorer(tree *cxx.Tree) *explorer {
	e := &explorer{tree: tree, scope: tree.Root()}
	e.names = e.collect()

	return e
}

// exec runs one command line and returns its output. The returned error
// is errQuit when the line asks to leave the REPL.
func (e *explorer) exec(line string) (string, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return "", errQuit

	case "h", "help", "?":
		return helpMessage(), nil

	case "lookup":
		if arg == "" {
			return "", fmt.Errorf("%w: lookup NAME", ErrUsage)
		}

		n, err := e.lookup(arg)
		if err != nil {
			return "", err
		}

		return describe(n), nil

	case "resolve":
		if arg == "" {
			return "", fmt.Errorf("%w: resolve TYPE", ErrUsage)
		}

		return e.scope.Resolve(arg), nil

	case "cd":
		return "", e.cd(arg)

	case "ls":
		s := e.scope

		if arg != "" {
			var err error
			if s, err = e.scopeOf(arg); err != nil {
				return "", err
			}
		}

		return list(s), nil

	case "dump":
		return e.dump(arg)

	default:
		return "", fmt.Errorf("%w: %s (try 'help')", ErrUnknown, name)
	}
}

func (e *explorer) lookup(name string) (cxx.Node, error) {
	n, ok := e.scope.LookupSymbol(name)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNotFound, name, e.where())
	}

	return n, nil
}

// scopeOf returns the scope declared by the namespace or class name.
// Class templates open their primary declaration.
func (e *explorer) scopeOf(name string) (*cxx.Scope, error) {
	switch name {
	case "::":
		return e.tree.Root(), nil
	case "..":
		if e.scope.IsRoot() {
			return e.scope, nil
		}

		return e.scope.Parent(), nil
	}

	n, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case *cxx.Namespace:
		return n.Inner(), nil
	case *cxx.Class:
		return n.Inner(), nil
	case *cxx.ClassTemplate:
		return n.Primary().Inner(), nil
	}

	return nil, fmt.Errorf("%w: %s is a %s", ErrNotScope, n.QualifiedName(), n.Kind())
}

func (e *explorer) cd(arg string) error {
	if arg == "" {
		arg = "::"
	}

	s, err := e.scopeOf(arg)
	if err != nil {
		return err
	}

	e.scope = s

	return nil
}

func (e *explorer) dump(arg string) (string, error) {
	var b strings.Builder

	if arg == "" {
		if e.scope.IsRoot() {
			err := e.tree.Dump(&b)

			return b.String(), err
		}

		for n := range e.scope.Symbols() {
			if err := cxx.DumpNode(&b, n); err != nil {
				return "", err
			}
		}

		return b.String(), nil
	}

	n, err := e.lookup(arg)
	if err != nil {
		return "", err
	}

	err = cxx.DumpNode(&b, n)

	return b.String(), err
}

// where returns the qualified name of the current scope.
func (e *explorer) where() string {
	if e.scope.IsRoot() {
		return "::"
	}

	return e.scope.String()
}

// collect returns the qualified name of every declaration of the tree.
// Aliases are listed by their own name rather than the aliased type.
func (e *explorer) collect() []string {
	var names []string

	var walk func(*cxx.Scope)
	walk = func(s *cxx.Scope) {
		for n := range s.Symbols() {
			names = append(names, s.Prefix()+n.Name())
		}

		for c := range s.Children() {
			walk(c)
		}
	}

	walk(e.tree.Root())

	slices.Sort(names)

	return slices.Compact(names)
}

// candidates returns the names completing a word typed in the current
// scope: every qualified name, plus the names relative to the scope.
func (e *explorer) candidates() []string {
	prefix := e.scope.Prefix()
	if prefix == "" {
		return e.names
	}

	out := slices.Clone(e.names)

	for _, qn := range e.names {
		if rel, ok := strings.CutPrefix(qn, prefix); ok {
			out = append(out, rel)
		}
	}

	return out
}

func describe(n cxx.Node) string {
	s := n.Kind().String() + " " + n.QualifiedName()

	if loc := n.Location(); loc.File != "" {
		s += " (" + loc.String() + ")"
	}

	if a := n.Access(); a != cxx.AccessPublic {
		s += " " + a.String()
	}

	if n.Settings().Exported {
		s += " exported"
	}

	return s
}

func list(s *cxx.Scope) string {
	var b strings.Builder

	for n := range s.Symbols() {
		fmt.Fprintf(&b, "  %-18s %s\n", n.Kind(), n.Name())
	}

	return strings.TrimSuffix(b.String(), "\n")
}

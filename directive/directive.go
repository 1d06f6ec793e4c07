package directive

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/log"
)

// Op is the action of one directive expression.
type Op int

const (
	OpExport Op = iota
	OpHide
	OpInstance
)

func (o Op) String() string {
	switch o {
	case OpExport:
		return "export"
	case OpHide:
		return "hide"
	case OpInstance:
		return "instance"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Directive is one parsed expression of a directive line.
type Directive struct {
	Op Op
	// Name is the export name given to export, or the instance name given
	// to instance.
	Name string
	Args []string
}

// Apply returns s with d folded in.
func (d Directive) Apply(s cxx.ExportSettings) cxx.ExportSettings {
	switch d.Op {
	case OpExport:
		s = s.Export()
		if d.Name != "" {
			s = s.Rename(d.Name)
		}
	case OpHide:
		s = s.Hide()
	case OpInstance:
		s = s.Instance(d.Name, d.Args...)
	}

	return s
}

// Parser recognizes directive lines. The zero value is not usable; build
// one with [New] and share it.
type Parser struct {
	prefix *regexp.Regexp
	log    log.Logger
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the logger used to trace parsed directives.
func WithLogger(l log.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// New returns a Parser ready for use.
func New(opts ...Option) *Parser {
	p := &Parser{
		prefix: regexp.MustCompile(`^[ \t]*//[ \t]*pxx[ \t]*::`),
		log:    log.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// IsDirective reports whether line is a directive line.
func (p *Parser) IsDirective(line string) bool {
	return p.prefix.MatchString(line)
}

// ParseLine parses a single comment line. Lines that are not directives
// yield no directives and no error.
func (p *Parser) ParseLine(line string) ([]Directive, error) {
	loc := p.prefix.FindStringIndex(line)
	if loc == nil {
		return nil, nil
	}

	body := strings.TrimSpace(line[loc[1]:])
	if body == "" {
		return nil, errors.New("empty directive")
	}

	// the expression list parses as the elements of an array literal
	tree, err := parser.Parse("[" + body + "]")
	if err != nil {
		return nil, err
	}

	list, ok := tree.Node.(*ast.ArrayNode)
	if !ok || len(list.Nodes) == 0 {
		return nil, fmt.Errorf("unexpected %q", body)
	}

	out := make([]Directive, 0, len(list.Nodes))

	for _, n := range list.Nodes {
		d, err := directiveOf(n)
		if err != nil {
			return nil, err
		}

		out = append(out, d)
	}

	return out, nil
}

// Fold applies every directive in comment to parent and returns the
// result. Comment may span several lines; lines are applied top to bottom
// and lines that are not directives are ignored. A malformed line is
// skipped and reported in the returned error, which joins one
// [*SyntaxError] per bad line.
func (p *Parser) Fold(parent cxx.ExportSettings, comment string) (cxx.ExportSettings, error) {
	var errs []error

	s := parent

	for i, line := range strings.Split(comment, "\n") {
		line = strings.TrimRight(line, "\r")

		ds, err := p.ParseLine(line)
		if err != nil {
			errs = append(errs, &SyntaxError{Line: i + 1, Text: strings.TrimSpace(line), Err: err})

			continue
		}

		for _, d := range ds {
			s = d.Apply(s)

			p.log.Trace("directive",
				slog.String("op", d.Op.String()),
				slog.String("name", d.Name),
				slog.Any("args", d.Args),
			)
		}
	}

	return s, errors.Join(errs...)
}

func directiveOf(n ast.Node) (Directive, error) {
	var (
		name string
		args []ast.Node
		call bool
	)

	switch n := n.(type) {
	case *ast.IdentifierNode:
		name = n.Value
	case *ast.CallNode:
		id, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return Directive{}, fmt.Errorf("unexpected call of %s", n.Callee)
		}

		name, args, call = id.Value, n.Arguments, true
	default:
		return Directive{}, fmt.Errorf("unexpected expression %s", n)
	}

	switch name {
	case "export":
		switch len(args) {
		case 0:
			return Directive{Op: OpExport}, nil
		case 1:
			s, err := stringOf(args[0])

			return Directive{Op: OpExport, Name: s}, err
		}

		return Directive{}, errors.New("export takes at most one argument")

	case "hide":
		if len(args) > 0 {
			return Directive{}, errors.New("hide takes no arguments")
		}

		return Directive{Op: OpHide}, nil

	case "instance":
		if !call {
			return Directive{}, errors.New("instance requires an argument list")
		}

		return instanceOf(args)
	}

	return Directive{}, fmt.Errorf("unknown directive %q", name)
}

func instanceOf(args []ast.Node) (Directive, error) {
	d := Directive{Op: OpInstance}

	switch len(args) {
	case 1:
	case 2:
		s, err := stringOf(args[0])
		if err != nil {
			return Directive{}, err
		}

		d.Name = s
	default:
		return Directive{}, errors.New(`instance expects (["arg", ...]) or ("name", ["arg", ...])`)
	}

	list, ok := args[len(args)-1].(*ast.ArrayNode)
	if !ok {
		return Directive{}, fmt.Errorf("expected list of template arguments, got %s", args[len(args)-1])
	}

	if len(list.Nodes) == 0 {
		return Directive{}, errors.New("empty template argument list")
	}

	d.Args = make([]string, len(list.Nodes))

	for i, a := range list.Nodes {
		s, err := stringOf(a)
		if err != nil {
			return Directive{}, err
		}

		d.Args[i] = s
	}

	return d, nil
}

func stringOf(n ast.Node) (string, error) {
	s, ok := n.(*ast.StringNode)
	if !ok {
		return "", fmt.Errorf("expected string literal, got %s", n)
	}

	return s.Value, nil
}

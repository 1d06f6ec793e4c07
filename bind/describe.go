package bind

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/log"
)

// Module describes everything exported from one translation unit.
type Module struct {
	Name      string     `json:"name,omitempty"      yaml:"name,omitempty"`
	UsesStd   bool       `json:"uses_std"            yaml:"uses_std"`
	UsesEigen bool       `json:"uses_eigen"          yaml:"uses_eigen"`
	Functions []Function `json:"functions,omitempty" yaml:"functions,omitempty"`
	Classes   []Class    `json:"classes,omitempty"   yaml:"classes,omitempty"`
}

// Argument is one resolved parameter of a callable.
type Argument struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type"           yaml:"type"`
}

// Function describes a free function, a function template instance, a
// method or a constructor.
type Function struct {
	// Name is the Python name.
	Name          string     `json:"name"                  yaml:"name"`
	QualifiedName string     `json:"qualified_name"        yaml:"qualified_name"`
	Access        string     `json:"access"                yaml:"access"`
	ReturnType    string     `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Arguments     []Argument `json:"arguments"             yaml:"arguments"`
	// Overloads is the size of the C++ overload set the function belongs
	// to. Binding one member of a larger set needs a pointer cast.
	Overloads   int    `json:"overloads"              yaml:"overloads"`
	PointerType string `json:"pointer_type,omitempty" yaml:"pointer_type,omitempty"`
	Const       bool   `json:"const,omitempty"        yaml:"const,omitempty"`
	Static      bool   `json:"static,omitempty"       yaml:"static,omitempty"`
	// Template is the qualified name of the function template the
	// function was instantiated from.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// HasOverload reports whether f shares its C++ name with other functions.
func (f Function) HasOverload() bool { return f.Overloads > 1 }

// ArgumentTypes returns the resolved argument types in order.
func (f Function) ArgumentTypes() []string {
	out := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		out[i] = a.Type
	}

	return out
}

// Ref returns the C++ expression naming f, cast to its pointer type when
// the name alone is ambiguous.
func (f Function) Ref() string {
	if !f.HasOverload() {
		return "&" + f.QualifiedName
	}

	ptr := f.PointerType
	if ptr == "" || f.Static || !strings.Contains(ptr, "::*") {
		ptr = f.ReturnType + " (*)(" + strings.Join(f.ArgumentTypes(), ", ") + ")"
	}

	return "static_cast<" + ptr + ">(&" + f.QualifiedName + ")"
}

// Variable describes a public data member.
type Variable struct {
	Name          string `json:"name"             yaml:"name"`
	QualifiedName string `json:"qualified_name"   yaml:"qualified_name"`
	Type          string `json:"type"             yaml:"type"`
	Const         bool   `json:"const"            yaml:"const"`
	Static        bool   `json:"static,omitempty" yaml:"static,omitempty"`
}

// Class describes an exported class or class template instance.
type Class struct {
	Name          string     `json:"name"                   yaml:"name"`
	QualifiedName string     `json:"qualified_name"         yaml:"qualified_name"`
	Struct        bool       `json:"struct,omitempty"       yaml:"struct,omitempty"`
	Constructors  []Function `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Methods       []Function `json:"methods,omitempty"      yaml:"methods,omitempty"`
	DataMembers   []Variable `json:"data_members,omitempty" yaml:"data_members,omitempty"`
	// Template is the qualified name of the class template the class was
	// instantiated from, and Key the declaration its members were copied
	// from.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Key      string `json:"key,omitempty"      yaml:"key,omitempty"`
}

type describer struct {
	tree   *cxx.Tree
	module Module
	match  []glob.Glob
	log    log.Logger
	hasLog bool
	errs   []error
}

// Describe returns the descriptors of every exported declaration of tree.
// Templates must already be instantiated. The only errors are invalid
// [WithMatch] patterns.
func Describe(tree *cxx.Tree, opts ...Option) (Module, error) {
	d := &describer{tree: tree}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if err := errors.Join(d.errs...); err != nil {
		return Module{}, err
	}

	if !d.hasLog {
		d.log = tree.Logger()
	}

	d.scope(tree.Root())

	d.module.UsesStd = tree.UsesNamespace("std") || d.includes(stdHeader) || d.mentions("std::")
	d.module.UsesEigen = tree.UsesNamespace("Eigen") || d.includes(eigenHeader) || d.mentions("Eigen::")

	return d.module, nil
}

func (d *describer) matches(qn string) bool {
	if len(d.match) == 0 {
		return true
	}

	for _, g := range d.match {
		if g.Match(qn) {
			return true
		}
	}

	d.log.Trace("not matched", slog.String("name", qn))

	return false
}

func (d *describer) scope(s *cxx.Scope) {
	for n := range s.Symbols() {
		switch n := n.(type) {
		case *cxx.Namespace:
			d.scope(n.Inner())

		case *cxx.Class:
			d.class(n)

		case *cxx.Overload[*cxx.Function]:
			for _, f := range n.Members() {
				if f.Exported() && d.matches(f.QualifiedName()) {
					d.module.Functions = append(d.module.Functions, function(f, n.Len()))
				}
			}

		case *cxx.ClassTemplate:
			for _, in := range n.Instances() {
				if !d.matches(in.Decl.QualifiedName()) {
					continue
				}

				c := d.describeClass(in.Decl)
				c.Template = n.QualifiedName()
				c.Key = string(in.Key)
				d.module.Classes = append(d.module.Classes, c)
			}

		case *cxx.Overload[*cxx.FunctionTemplate]:
			for _, t := range n.Members() {
				for _, in := range t.Instances() {
					if !d.matches(in.Decl.QualifiedName()) {
						continue
					}

					f := function(in.Decl, 1)
					f.Template = t.QualifiedName()
					d.module.Functions = append(d.module.Functions, f)
				}
			}
		}
	}
}

func (d *describer) class(c *cxx.Class) {
	if c.Exported() && c.Access() == cxx.AccessPublic && d.matches(c.QualifiedName()) {
		d.module.Classes = append(d.module.Classes, d.describeClass(c))
	}

	// nested classes are bound on their own
	for _, nested := range c.Classes() {
		d.class(nested)
	}
}

func (d *describer) describeClass(c *cxx.Class) Class {
	out := Class{
		Name:          c.ExportName(),
		QualifiedName: c.QualifiedName(),
		Struct:        c.Struct,
	}

	for _, k := range c.Constructors() {
		if bound(k) {
			f := function(&k.Function, 1)
			f.QualifiedName = k.QualifiedName()
			f.PointerType = ""
			out.Constructors = append(out.Constructors, f)
		}
	}

	methods := c.Methods()

	count := make(map[string]int, len(methods))
	for _, m := range methods {
		count[m.Name()]++
	}

	for _, m := range methods {
		if !bound(m) {
			continue
		}

		f := function(&m.Function, count[m.Name()])
		f.PointerType = m.PointerType()
		f.Const = m.Const
		f.Static = m.Static
		out.Methods = append(out.Methods, f)
	}

	for _, v := range c.DataMembers() {
		if !bound(v) {
			continue
		}

		out.DataMembers = append(out.DataMembers, Variable{
			Name:          v.ExportName(),
			QualifiedName: v.Decl.QualifiedName(),
			Type:          v.ResolvedType(),
			Const:         v.Const,
			Static:        v.Static,
		})
	}

	d.log.Debug("described class",
		slog.String("class", out.QualifiedName),
		slog.Int("constructors", len(out.Constructors)),
		slog.Int("methods", len(out.Methods)),
		slog.Int("data_members", len(out.DataMembers)),
	)

	return out
}

type member interface {
	cxx.Node
	Exported() bool
}

// bound reports whether a class member can appear in a binding.
func bound(n member) bool {
	return n.Exported() && n.Access() == cxx.AccessPublic
}

func function(f *cxx.Function, overloads int) Function {
	var (
		names = f.Params
		types = f.ResolvedParamTypes()
		args  = make([]Argument, len(types))
	)

	for i, t := range types {
		args[i] = Argument{Name: names[i].Name, Type: t}
	}

	return Function{
		Name:          f.ExportName(),
		QualifiedName: f.QualifiedName(),
		Access:        f.Access().String(),
		ReturnType:    f.ResolvedReturnType(),
		Arguments:     args,
		Overloads:     overloads,
		PointerType:   f.PointerType(),
	}
}

// includes reports whether the translation unit includes a header
// accepted by match. The flags describe the whole unit, not only the
// declarations selected by [WithMatch].
func (d *describer) includes(match func(string) bool) bool {
	return slices.ContainsFunc(d.tree.Includes(), match)
}

// stdHeader reports whether path names a standard library header such as
// <vector>.
func stdHeader(path string) bool {
	name, ok := strings.CutPrefix(path, "<")
	if !ok {
		return false
	}

	name = strings.TrimSuffix(name, ">")

	return name != "" && !strings.ContainsAny(name, "./")
}

// eigenHeader reports whether path names an Eigen module header.
func eigenHeader(path string) bool {
	name := strings.Trim(path, "<>\"")

	return strings.HasPrefix(name, "Eigen/") || strings.HasPrefix(name, "unsupported/Eigen/")
}

// mentions reports whether any described type spelling contains s.
func (d *describer) mentions(s string) bool {
	has := func(f Function) bool {
		if strings.Contains(f.ReturnType, s) {
			return true
		}

		for _, a := range f.Arguments {
			if strings.Contains(a.Type, s) {
				return true
			}
		}

		return false
	}

	for _, f := range d.module.Functions {
		if has(f) {
			return true
		}
	}

	for _, c := range d.module.Classes {
		for _, f := range slices.Concat(c.Constructors, c.Methods) {
			if has(f) {
				return true
			}
		}

		for _, v := range c.DataMembers {
			if strings.Contains(v.Type, s) {
				return true
			}
		}
	}

	return false
}

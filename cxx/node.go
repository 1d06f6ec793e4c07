package cxx

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a [Node].
type Kind int

const (
	KindNamespace Kind = iota
	KindClass
	KindFunction
	KindMemberFunction
	KindConstructor
	KindMemberVariable
	KindTypeAlias
	KindClassTemplate
	KindFunctionTemplate
	KindOverload
)

var kindName = [...]string{
	KindNamespace:        "namespace",
	KindClass:            "class",
	KindFunction:         "function",
	KindMemberFunction:   "method",
	KindConstructor:      "constructor",
	KindMemberVariable:   "variable",
	KindTypeAlias:        "alias",
	KindClassTemplate:    "class template",
	KindFunctionTemplate: "function template",
	KindOverload:         "overload",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindName[k]
}

// Access is the accessibility of a declaration.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

// Location is a position in a source file. Line and Column count from 1.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Origin identifies the source text a declaration was built from. Two
// registrations with the same non-zero origin are the same declaration.
type Origin struct {
	File   string
	Offset int
}

// IsZero reports whether o is unknown.
func (o Origin) IsZero() bool { return o == Origin{} }

// Info holds the attributes shared by every declaration.
type Info struct {
	Name     string
	Access   Access
	Location Location
	Origin   Origin
	Settings ExportSettings
}

// Node is a declaration. The set of implementations is closed: [*Namespace],
// [*Class], [*Function], [*MemberFunction], [*Constructor],
// [*MemberVariable], [*TypeAlias], [*ClassTemplate], [*FunctionTemplate]
// and the [*Overload] instantiations.
type Node interface {
	Kind() Kind
	Name() string
	QualifiedName() string
	Access() Access
	// Scope returns the scope the declaration belongs to, or nil before it
	// is registered.
	Scope() *Scope
	Location() Location
	Origin() Origin
	Settings() ExportSettings

	decl() *Decl
}

// Decl carries the attributes common to all nodes.
type Decl struct {
	tree     *Tree
	id       NodeID
	scope    ScopeID
	name     string
	access   Access
	loc      Location
	origin   Origin
	settings ExportSettings
}

func makeDecl(info Info) Decl {
	return Decl{
		scope:    noScope,
		name:     info.Name,
		access:   info.Access,
		loc:      info.Location,
		origin:   info.Origin,
		settings: info.Settings.clone(),
	}
}

// Info returns the attributes d was built from.
func (d *Decl) Info() Info {
	return Info{
		Name:     d.name,
		Access:   d.access,
		Location: d.loc,
		Origin:   d.origin,
		Settings: d.settings.clone(),
	}
}

func (d *Decl) Name() string             { return d.name }
func (d *Decl) Access() Access           { return d.access }
func (d *Decl) Location() Location       { return d.loc }
func (d *Decl) Origin() Origin           { return d.origin }
func (d *Decl) Settings() ExportSettings { return d.settings.clone() }

func (d *Decl) Scope() *Scope {
	if d.tree == nil {
		return nil
	}

	return d.tree.scope(d.scope)
}

func (d *Decl) QualifiedName() string {
	if s := d.Scope(); s != nil {
		return s.Prefix() + d.name
	}

	return d.name
}

// Exported reports whether the declaration is marked for export.
func (d *Decl) Exported() bool { return d.settings.Exported }

// ExportName returns the name the declaration is exported as.
func (d *Decl) ExportName() string {
	if d.settings.ExportName != "" {
		return d.settings.ExportName
	}

	return d.name
}

func (d *Decl) decl() *Decl { return d }

// Namespace is a namespace declaration. Reopened namespaces share one node.
type Namespace struct {
	Decl

	inner ScopeID
}

// NewNamespace returns an unregistered namespace.
func NewNamespace(info Info) *Namespace {
	return &Namespace{Decl: makeDecl(info), inner: noScope}
}

func (*Namespace) Kind() Kind { return KindNamespace }

// Inner returns the scope holding the namespace members.
func (n *Namespace) Inner() *Scope { return n.innerScope(n.inner) }

func (d *Decl) innerScope(id ScopeID) *Scope {
	if d.tree == nil {
		return nil
	}

	return d.tree.scope(id)
}

// Class is a class or struct definition, a template specialization, or a
// template instance.
type Class struct {
	Decl

	Struct bool

	inner ScopeID
	tmpl  Node
	key   Key
}

// NewClass returns an unregistered class.
func NewClass(info Info, isStruct bool) *Class {
	return &Class{Decl: makeDecl(info), Struct: isStruct, inner: noScope}
}

func (*Class) Kind() Kind { return KindClass }

// Inner returns the member scope.
func (c *Class) Inner() *Scope { return c.innerScope(c.inner) }

// Template returns the template c was generated from, and the key of the
// declaration it was copied from.
func (c *Class) Template() (*ClassTemplate, Key, bool) {
	t, ok := c.tmpl.(*ClassTemplate)

	return t, c.key, ok
}

// Constructors returns every constructor in declaration order.
func (c *Class) Constructors() []*Constructor { return membersOf[*Constructor](c.Inner()) }

// Methods returns every member function in declaration order.
func (c *Class) Methods() []*MemberFunction { return membersOf[*MemberFunction](c.Inner()) }

// DataMembers returns every member variable in declaration order.
func (c *Class) DataMembers() []*MemberVariable { return symbolsOf[*MemberVariable](c.Inner()) }

// Aliases returns every member type alias in declaration order.
func (c *Class) Aliases() []*TypeAlias { return symbolsOf[*TypeAlias](c.Inner()) }

// Classes returns the nested classes in declaration order.
func (c *Class) Classes() []*Class { return symbolsOf[*Class](c.Inner()) }

func membersOf[F callable](s *Scope) []F {
	var out []F

	for _, o := range symbolsOf[*Overload[F]](s) {
		out = append(out, o.members...)
	}

	return out
}

func symbolsOf[N Node](s *Scope) []N {
	if s == nil {
		return nil
	}

	var out []N

	for n := range s.Symbols() {
		if v, ok := n.(N); ok {
			out = append(out, v)
		}
	}

	return out
}

// MemberVariable is a data member.
type MemberVariable struct {
	Decl

	Type   string
	Const  bool
	Static bool
}

// NewMemberVariable returns an unregistered data member.
func NewMemberVariable(info Info, typ string, isConst, isStatic bool) *MemberVariable {
	return &MemberVariable{Decl: makeDecl(info), Type: typ, Const: isConst, Static: isStatic}
}

func (*MemberVariable) Kind() Kind { return KindMemberVariable }

// ResolvedType returns Type qualified from the owning scope.
func (v *MemberVariable) ResolvedType() string { return resolveIn(v.Scope(), v.Type) }

func (v *MemberVariable) rewrite(rw func(string) string) *MemberVariable {
	c := *v
	c.Decl = makeDecl(v.Info())
	c.Type = rw(v.Type)

	return &c
}

// TypeAlias is a typedef or alias declaration.
type TypeAlias struct {
	Decl

	Target string
}

// NewTypeAlias returns an unregistered type alias.
func NewTypeAlias(info Info, target string) *TypeAlias {
	return &TypeAlias{Decl: makeDecl(info), Target: target}
}

func (*TypeAlias) Kind() Kind { return KindTypeAlias }

// QualifiedName returns the aliased type resolved from the owning scope, so
// that spellings naming the alias see through it.
func (a *TypeAlias) QualifiedName() string {
	s := a.Scope()
	if s == nil {
		return a.Target
	}

	if _, busy := a.tree.resolving[a.id]; busy {
		return a.Decl.QualifiedName()
	}

	a.tree.resolving[a.id] = struct{}{}
	defer delete(a.tree.resolving, a.id)

	return s.Resolve(a.Target)
}

func (a *TypeAlias) rewrite(rw func(string) string) *TypeAlias {
	c := *a
	c.Decl = makeDecl(a.Info())
	c.Target = rw(a.Target)

	return &c
}

func resolveIn(s *Scope, spelling string) string {
	if s == nil {
		return strings.TrimSpace(spelling)
	}

	return s.Resolve(spelling)
}

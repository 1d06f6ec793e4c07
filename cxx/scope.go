package cxx

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/pxx/log"
)

// ScopeID indexes a [Scope] in its [Tree].
type ScopeID int32

// NodeID indexes a [Node] in its [Tree].
type NodeID int32

const noScope ScopeID = -1

// Tree is the arena owning every scope and declaration of one translation
// unit. The root scope is created by [NewTree].
type Tree struct {
	scopes    []*Scope
	nodes     []Node
	templates []instantiator
	resolving map[NodeID]struct{}
	diags     []Diagnostic
	includes  []string
	log       log.Logger
}

// NewTree returns a tree holding only the root scope.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		resolving: make(map[NodeID]struct{}),
		log:       log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	t.newScope("", noScope)

	return t
}

// Root returns the global scope.
func (t *Tree) Root() *Scope { return t.scopes[0] }

// Logger returns the logger the tree reports to.
func (t *Tree) Logger() log.Logger { return t.log }

// UsesNamespace reports whether a scope called name was declared anywhere
// in the tree.
func (t *Tree) UsesNamespace(name string) bool {
	return t.Root().HasDescendantNamed(name)
}

// Include records an include directive of the translation unit. Path keeps
// its delimiters, as in "<vector>" or "\"geo/point.h\"".
func (t *Tree) Include(path string) {
	t.includes = append(t.includes, path)
}

// Includes returns the recorded include paths in source order.
func (t *Tree) Includes() []string {
	out := make([]string, len(t.includes))
	copy(out, t.includes)

	return out
}

// Diagnostics returns the non-fatal problems recorded so far.
func (t *Tree) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(t.diags))
	copy(out, t.diags)

	return out
}

// Instantiate generates the instances requested for every registered
// template, in registration order. Requests already handled by an earlier
// call are not processed again. It only fails if ctx is done.
func (t *Tree) Instantiate(ctx context.Context) error {
	// templates may register nested templates while instantiating
	for i := 0; i < len(t.templates); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		t.templates[i].instantiate()
	}

	return nil
}

// Report records err as a diagnostic at loc and logs it as a warning.
func (t *Tree) Report(loc Location, err error) {
	t.diags = append(t.diags, Diagnostic{Location: loc, Err: err})

	attrs := []slog.Attr{slog.String("location", loc.String())}

	var e *Error
	if errors.As(err, &e) {
		t.log.Warn(e.msg, append(attrs, e.Attrs()...)...)

		return
	}

	t.log.Warn(err.Error(), attrs...)
}

func (t *Tree) newScope(name string, parent ScopeID) *Scope {
	s := &Scope{
		tree:     t,
		id:       ScopeID(len(t.scopes)),
		parent:   parent,
		name:     name,
		children: make(map[string]ScopeID),
		symbols:  make(map[string]NodeID),
	}
	t.scopes = append(t.scopes, s)

	return s
}

func (t *Tree) scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		return nil
	}

	return t.scopes[id]
}

func (t *Tree) node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}

	return t.nodes[id]
}

// register adopts n into the arena as a declaration of scope. Namespaces and
// classes get their inner scope; templates register their primary and are
// queued for instantiation.
func (t *Tree) register(n Node, scope ScopeID) {
	d := n.decl()
	d.tree = t
	d.id = NodeID(len(t.nodes))
	d.scope = scope
	t.nodes = append(t.nodes, n)

	switch n := n.(type) {
	case *Namespace:
		n.inner = t.scope(scope).AddChildScope(d.name).id
	case *Class:
		n.inner = t.scope(scope).AddChildScope(d.name).id
	case *ClassTemplate:
		t.register(n.primary, scope)
		t.templates = append(t.templates, n)
	case *FunctionTemplate:
		t.register(n.primary, scope)
		t.templates = append(t.templates, n)
	}
}

// Scope is a named region of the tree owning declarations and child scopes.
// The root scope has an empty name.
type Scope struct {
	tree        *Tree
	id          ScopeID
	parent      ScopeID
	name        string
	children    map[string]ScopeID
	childOrder  []ScopeID
	symbols     map[string]NodeID
	symbolOrder []NodeID
}

// Name returns the unqualified scope name.
func (s *Scope) Name() string { return s.name }

// Tree returns the arena owning s.
func (s *Scope) Tree() *Tree { return s.tree }

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.tree.scope(s.parent) }

// IsRoot reports whether s is the global scope.
func (s *Scope) IsRoot() bool { return s.parent == noScope }

// RootScope returns the global scope.
func (s *Scope) RootScope() *Scope { return s.tree.Root() }

// Prefix returns the qualification of names declared in s, ending with
// "::". The root scope has an empty prefix.
func (s *Scope) Prefix() string {
	if s.IsRoot() {
		return ""
	}

	return s.Parent().Prefix() + s.name + "::"
}

// String returns the qualified name of s.
func (s *Scope) String() string {
	return strings.TrimSuffix(s.Prefix(), "::")
}

// AddChildScope returns the child scope called name, creating it if needed.
func (s *Scope) AddChildScope(name string) *Scope {
	if id, ok := s.children[name]; ok {
		return s.tree.scope(id)
	}

	c := s.tree.newScope(name, s.id)
	s.children[name] = c.id
	s.childOrder = append(s.childOrder, c.id)

	return c
}

// ChildScope resolves a "::"-separated path of child scopes below s. Every
// segment must exist.
func (s *Scope) ChildScope(path string) (*Scope, bool) {
	if id, ok := s.children[path]; ok {
		return s.tree.scope(id), true
	}

	head, rest, ok := cutQualifier(path)
	if !ok {
		return nil, false
	}

	id, found := s.children[head]
	if !found {
		return nil, false
	}

	return s.tree.scope(id).ChildScope(rest)
}

// Children returns the child scopes of s in creation order.
func (s *Scope) Children() iter.Seq[*Scope] {
	return func(yield func(*Scope) bool) {
		for _, id := range s.childOrder {
			if !yield(s.tree.scope(id)) {
				return
			}
		}
	}
}

// Symbols returns the declarations of s in declaration order. Callables
// appear as their [Overload].
func (s *Scope) Symbols() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, id := range s.symbolOrder {
			if !yield(s.tree.node(id)) {
				return
			}
		}
	}
}

// Symbol returns the declaration called name in s itself.
func (s *Scope) Symbol(name string) (Node, bool) {
	id, ok := s.symbols[name]
	if !ok {
		return nil, false
	}

	return s.tree.node(id), true
}

// HasDescendantNamed reports whether a scope called name exists anywhere
// below s.
func (s *Scope) HasDescendantNamed(name string) bool {
	for c := range s.Children() {
		if c.name == name || c.HasDescendantNamed(name) {
			return true
		}
	}

	return false
}

// Add registers n in s and returns the canonical declaration.
//
// If s already declares the name, no new symbol is created: namespaces and
// classes merge into the existing node, and callables join the existing
// [Overload] unless an identical signature is already present, in which
// case that member is returned. A new callable is always stored inside a
// fresh [Overload].
func (s *Scope) Add(n Node) Node {
	d := n.decl()

	if id, ok := s.symbols[d.name]; ok {
		return s.merge(s.tree.node(id), n)
	}

	var (
		sym     Node
		wrapped bool
	)

	switch n.(type) {
	case *Function:
		sym, wrapped = newOverload[*Function](d), true
	case *MemberFunction:
		sym, wrapped = newOverload[*MemberFunction](d), true
	case *Constructor:
		sym, wrapped = newOverload[*Constructor](d), true
	case *FunctionTemplate:
		sym, wrapped = newOverload[*FunctionTemplate](d), true
	default:
		sym = n
	}

	s.tree.register(sym, s.id)
	s.symbols[d.name] = sym.decl().id
	s.symbolOrder = append(s.symbolOrder, sym.decl().id)

	if wrapped {
		return s.merge(sym, n)
	}

	s.tree.log.Trace("registered",
		slog.String("kind", n.Kind().String()),
		slog.String("name", n.QualifiedName()),
	)

	return n
}

func (s *Scope) merge(existing, n Node) Node {
	switch e := existing.(type) {
	case *Overload[*Function]:
		if f, ok := n.(*Function); ok {
			return e.add(f)
		}
	case *Overload[*MemberFunction]:
		if f, ok := n.(*MemberFunction); ok {
			return e.add(f)
		}
	case *Overload[*Constructor]:
		if f, ok := n.(*Constructor); ok {
			return e.add(f)
		}
	case *Overload[*FunctionTemplate]:
		if f, ok := n.(*FunctionTemplate); ok {
			return e.add(f)
		}
	default:
		if existing.Kind() == n.Kind() {
			d := existing.decl()
			d.settings = d.settings.absorb(n.Settings())

			return existing
		}
	}

	s.tree.log.Debug("declaration conflicts with existing symbol",
		slog.String("name", n.Name()),
		slog.String("kind", n.Kind().String()),
		slog.String("existing", existing.Kind().String()),
	)

	return existing
}

// LookupSymbol finds the declaration a name refers to from s.
//
// An unqualified name is searched in s and then in each enclosing scope.
// For a qualified name, the leading segment is searched as a child scope of
// s and then of each enclosing scope; the remainder is resolved below it
// without climbing.
func (s *Scope) LookupSymbol(name string) (Node, bool) {
	return s.lookup(name, nil)
}

func (s *Scope) lookup(name string, accept func(Node) bool) (Node, bool) {
	if rest, global := strings.CutPrefix(name, "::"); global {
		return s.RootScope().lookupBelow(rest, accept)
	}

	head, rest, qualified := cutQualifier(name)

	for sc := s; sc != nil; sc = sc.Parent() {
		if !qualified {
			if n, ok := sc.Symbol(name); ok && (accept == nil || accept(n)) {
				return n, true
			}

			continue
		}

		if c, ok := sc.children[head]; ok {
			if n, ok := s.tree.scope(c).lookupBelow(rest, accept); ok {
				return n, true
			}
		}
	}

	return nil, false
}

func (s *Scope) lookupBelow(path string, accept func(Node) bool) (Node, bool) {
	head, rest, qualified := cutQualifier(path)
	if !qualified {
		n, ok := s.Symbol(path)
		if !ok || (accept != nil && !accept(n)) {
			return nil, false
		}

		return n, true
	}

	c, ok := s.children[head]
	if !ok {
		return nil, false
	}

	return s.tree.scope(c).lookupBelow(rest, accept)
}

// cutQualifier splits name around its first "::" outside angle brackets.
func cutQualifier(name string) (head, rest string, ok bool) {
	depth := 0

	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ':':
			if depth == 0 && i+1 < len(name) && name[i+1] == ':' {
				return name[:i], name[i+2:], true
			}
		}
	}

	return name, "", false
}

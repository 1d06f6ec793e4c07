package cxx

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/pxx/log"
)

func newTestTree() *Tree { return NewTree(WithLogger(log.Logger{})) }

func named(name string) Info { return Info{Name: name} }

func at(name string, offset int) Info {
	return Info{Name: name, Origin: Origin{File: "test.h", Offset: offset}}
}

func TestScope_Prefix(t *testing.T) {
	tree := newTestTree()
	root := tree.Root()

	c := root.AddChildScope("a").AddChildScope("b").AddChildScope("c")

	assert.Equal(t, "a::b::c::", c.Prefix())
	assert.Equal(t, "a::b::c", c.String())
	assert.Equal(t, "", root.Prefix())
	assert.True(t, root.IsRoot())
	assert.Nil(t, root.Parent())
	assert.Same(t, root, c.RootScope())
}

func TestScope_AddChildScopeIsIdempotent(t *testing.T) {
	root := newTestTree().Root()

	a := root.AddChildScope("a")

	assert.Same(t, a, root.AddChildScope("a"))
	assert.Len(t, slices.Collect(root.Children()), 1)
}

func TestScope_ChildScope(t *testing.T) {
	root := newTestTree().Root()
	c := root.AddChildScope("a").AddChildScope("b").AddChildScope("c")

	tests := []struct {
		path string
		want *Scope
	}{
		{"a::b::c", c},
		{"a::b", c.Parent()},
		{"a::x", nil},
		{"x::b", nil},
		{"b", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := root.ChildScope(tt.path)
			if tt.want == nil {
				assert.False(t, ok)

				return
			}

			require.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestScope_AddGroupsOverloads(t *testing.T) {
	root := newTestTree().Root()

	f1 := NewFunction(at("f", 1), "void", Param{Type: "int"})
	f2 := NewFunction(at("f", 2), "void", Param{Type: "double"})
	dup := NewFunction(at("f", 3), "void", Param{Name: "x", Type: " int "})
	again := NewFunction(at("f", 2), "void", Param{Type: "double"})

	assert.Same(t, f1, root.Add(f1))
	assert.Same(t, f2, root.Add(f2))
	assert.Same(t, f1, root.Add(dup))
	assert.Same(t, f2, root.Add(again))

	n, ok := root.LookupSymbol("f")
	require.True(t, ok)

	o, ok := n.(*Overload[*Function])
	require.True(t, ok, "got %T", n)

	assert.Equal(t, 2, o.Len())
	assert.Equal(t, "f", o.QualifiedName())
	assert.Equal(t, KindFunction, o.MemberKind())
	assert.Equal(t, []*Function{f1, f2}, o.Members())
}

func TestScope_AddMergesNamespaces(t *testing.T) {
	root := newTestTree().Root()

	first := root.Add(NewNamespace(named("ns"))).(*Namespace)
	first.Inner().Add(NewClass(named("A"), false))

	second := root.Add(NewNamespace(Info{
		Name:     "ns",
		Settings: ExportSettings{}.Export(),
	}))

	require.Same(t, first, second)
	assert.True(t, first.Exported())

	_, ok := first.Inner().Symbol("A")
	assert.True(t, ok)
	assert.Len(t, slices.Collect(root.Symbols()), 1)
}

func TestScope_ConstructorOverload(t *testing.T) {
	root := newTestTree().Root()

	ns := root.Add(NewNamespace(named("ns"))).(*Namespace)
	a := ns.Inner().Add(NewClass(named("A"), false)).(*Class)

	a.Inner().Add(NewConstructor(at("A", 10)))
	a.Inner().Add(NewConstructor(at("A", 20), Param{Name: "i", Type: "int"}))

	n, ok := a.Inner().Symbol("A")
	require.True(t, ok)

	o, ok := n.(*Overload[*Constructor])
	require.True(t, ok, "got %T", n)

	assert.Equal(t, 2, o.Len())
	assert.Equal(t, "ns::A", o.QualifiedName())
	assert.Equal(t, "ns::A", a.QualifiedName())
	assert.Len(t, a.Constructors(), 2)
}

func TestScope_LookupSymbol(t *testing.T) {
	root := newTestTree().Root()

	outer := root.Add(NewNamespace(named("outer"))).(*Namespace)
	x := outer.Inner().Add(NewClass(named("X"), false))
	inner := outer.Inner().Add(NewNamespace(named("inner"))).(*Namespace)

	sibling := root.Add(NewNamespace(named("sibling"))).(*Namespace)
	y := sibling.Inner().Add(NewClass(named("Y"), true))

	from := inner.Inner()

	tests := []struct {
		name string
		want Node
	}{
		{"X", x},
		{"outer::X", x},
		{"::outer::X", x},
		{"Y", nil},
		{"sibling::Y", y},
		{"inner::Y", nil},
		{"outer::inner::X", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := from.LookupSymbol(tt.name)
			if tt.want == nil {
				assert.False(t, ok, "resolved to %v", got)

				return
			}

			require.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}

	assert.Equal(t, "outer::X", x.QualifiedName())
	assert.Equal(t, "sibling::Y", y.QualifiedName())
}

func TestScope_LookupQualifiedFromNestedScope(t *testing.T) {
	root := newTestTree().Root()

	a := root.Add(NewNamespace(named("a"))).(*Namespace)
	c := a.Inner().Add(NewNamespace(named("c"))).(*Namespace)
	want := c.Inner().Add(NewClass(named("A"), false))
	b := a.Inner().Add(NewNamespace(named("b"))).(*Namespace)

	for _, s := range []*Scope{a.Inner(), b.Inner()} {
		got, ok := s.LookupSymbol("c::A")
		require.True(t, ok, "from %s", s)
		assert.Same(t, want, got)
		assert.Equal(t, "a::c::A", got.QualifiedName())
	}

	_, ok := root.LookupSymbol("c::A")
	assert.False(t, ok)
}

func TestTree_UsesNamespace(t *testing.T) {
	tree := newTestTree()
	root := tree.Root()

	std := root.Add(NewNamespace(named("std"))).(*Namespace)
	std.Inner().Add(NewNamespace(named("chrono")))

	assert.True(t, tree.UsesNamespace("std"))
	assert.True(t, tree.UsesNamespace("chrono"))
	assert.False(t, tree.UsesNamespace("Eigen"))
	assert.True(t, root.HasDescendantNamed("chrono"))
	assert.False(t, std.Inner().HasDescendantNamed("std"))
}

func TestScope_SymbolsKeepDeclarationOrder(t *testing.T) {
	root := newTestTree().Root()

	for _, name := range []string{"z", "a", "m"} {
		root.Add(NewClass(named(name), false))
	}

	var got []string
	for n := range root.Symbols() {
		got = append(got, n.Name())
	}

	assert.Equal(t, []string{"z", "a", "m"}, got)
}

func TestCutQualifier(t *testing.T) {
	tests := []struct {
		in, head, rest string
		ok             bool
	}{
		{"a::b::c", "a", "b::c", true},
		{"Sum<a::B,3>::x", "Sum<a::B,3>", "x", true},
		{"plain", "plain", "", false},
	}

	for _, tt := range tests {
		head, rest, ok := cutQualifier(tt.in)
		assert.Equal(t, tt.head, head, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

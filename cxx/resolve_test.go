package cxx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// resolveFixture declares
//
//	namespace a {
//	  namespace b { class C; }
//	  namespace c { class A; }
//	  using Vec = std::vector<c::A>;
//	  template <typename T, int N> class Sum;
//	  void C();
//	}
func resolveFixture(t *testing.T) (a, b *Scope) {
	t.Helper()

	root := newTestTree().Root()

	na := root.Add(NewNamespace(named("a"))).(*Namespace)
	nb := na.Inner().Add(NewNamespace(named("b"))).(*Namespace)
	nb.Inner().Add(NewClass(named("C"), false))

	nc := na.Inner().Add(NewNamespace(named("c"))).(*Namespace)
	nc.Inner().Add(NewClass(named("A"), false))

	na.Inner().Add(NewTypeAlias(named("Vec"), "std::vector<c::A>"))
	na.Inner().Add(NewClassTemplate(NewClass(named("Sum"), false), "T", "N"))
	na.Inner().Add(NewFunction(named("C"), "void"))

	return na.Inner(), nb.Inner()
}

func TestScope_Resolve(t *testing.T) {
	a, b := resolveFixture(t)

	tests := []struct {
		name     string
		scope    *Scope
		spelling string
		want     string
	}{
		{"qualified is unchanged", b, "a::b::C", "a::b::C"},
		{"qualified from root", a.RootScope(), "a::b::C", "a::b::C"},
		{"unqualified", b, "C", "a::b::C"},
		{"cv and reference", b, "const C &", "const a::b::C &"},
		{"pointer", b, "C*", "a::b::C*"},
		{"relative qualifier", a, "c::A", "a::c::A"},
		{"relative qualifier from nested scope", b, "c::A", "a::c::A"},
		{"template argument", a, "std::vector<c::A>", "std::vector<a::c::A>"},
		{"nested template argument", b, "std::map<int, std::vector<c::A>>", "std::map<int, std::vector<a::c::A>>"},
		{"unknown", a, "std::string", "std::string"},
		{"builtin", a, "unsigned long long", "unsigned long long"},
		{"global qualifier", b, "::a::b::C", "a::b::C"},
		{"alias sees through", b, "Vec", "std::vector<a::c::A>"},
		{"alias as argument", b, "std::pair<Vec, int>", "std::pair<std::vector<a::c::A>, int>"},
		{"template name", a, "Sum<int, 3>", "a::Sum<int, 3>"},
		{"function is not a type", a, "C", "C"},
		{"dependent member", b, "typename T::value_type", "typename T::value_type"},
		{"member of template instance", a, "Sum<int, 3>::value_type", "a::Sum<int, 3>::value_type"},
		{"numbers", a, "std::array<c::A, 3>", "std::array<a::c::A, 3>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Resolve(tt.spelling))
		})
	}
}

func TestScope_ResolveIsIdempotent(t *testing.T) {
	a, b := resolveFixture(t)

	for _, s := range []string{"C", "c::A", "std::vector<c::A>", "Vec", "Sum<c::A, 1>"} {
		once := b.Resolve(s)
		assert.Equal(t, once, b.Resolve(once), s)
		assert.Equal(t, once, a.RootScope().Resolve(once), s)
	}
}

func TestTypeAlias_SelfReference(t *testing.T) {
	root := newTestTree().Root()

	alias := root.Add(NewTypeAlias(named("Loop"), "Loop*")).(*TypeAlias)

	assert.Equal(t, "Loop*", alias.QualifiedName())
}

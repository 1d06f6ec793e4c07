package frontend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/directive"
	"github.com/ardnew/pxx/log"
)

func parse(t *testing.T, src string, opts ...Option) *cxx.Tree {
	t.Helper()

	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))
	require.NoError(t, Parse(context.Background(), tree, "test.h", []byte(src), opts...))
	require.NoError(t, tree.Instantiate(context.Background()))

	return tree
}

func lookup[N cxx.Node](t *testing.T, tree *cxx.Tree, name string) N {
	t.Helper()

	n, ok := tree.Root().LookupSymbol(name)
	require.True(t, ok, "%s not declared", name)

	v, ok := n.(N)
	require.True(t, ok, "%s is %T", name, n)

	return v
}

func TestParse_Namespaces(t *testing.T) {
	tree := parse(t, `
namespace a {
namespace b { class C {}; }
}
namespace a::c { struct D {}; }
namespace a { class E {}; }
`)

	c := lookup[*cxx.Class](t, tree, "a::b::C")
	assert.Equal(t, "a::b::C", c.QualifiedName())
	assert.False(t, c.Struct)

	d := lookup[*cxx.Class](t, tree, "a::c::D")
	assert.True(t, d.Struct)

	lookup[*cxx.Class](t, tree, "a::E")

	assert.True(t, tree.UsesNamespace("b"))
	assert.Empty(t, tree.Diagnostics())
}

const pointSource = `
// pxx :: export
class Point {
public:
  Point();
  Point(double x, double y);
  double norm() const;
  static Point origin();
  const double& ref() const { return x; }
  double x;
  const int id = 0;
private:
  double secret;
};
`

func TestParse_Class(t *testing.T) {
	tree := parse(t, pointSource)

	c := lookup[*cxx.Class](t, tree, "Point")
	assert.True(t, c.Exported())

	ctors := c.Constructors()
	require.Len(t, ctors, 2)
	assert.Empty(t, ctors[0].Params)
	assert.Equal(t, []cxx.Param{{Name: "x", Type: "double"}, {Name: "y", Type: "double"}}, ctors[1].Params)
	assert.Equal(t, "Point", ctors[1].QualifiedName())

	methods := c.Methods()
	require.Len(t, methods, 3)

	assert.Equal(t, "norm", methods[0].Name())
	assert.Equal(t, "double", methods[0].ReturnType)
	assert.True(t, methods[0].Const)
	assert.False(t, methods[0].Static)
	assert.True(t, methods[0].Exported())

	assert.Equal(t, "origin", methods[1].Name())
	assert.True(t, methods[1].Static)
	assert.Equal(t, "Point", methods[1].ReturnType)

	assert.Equal(t, "const double&", methods[2].ReturnType)

	vars := c.DataMembers()
	require.Len(t, vars, 3)

	assert.Equal(t, "x", vars[0].Name())
	assert.Equal(t, "double", vars[0].Type)
	assert.Equal(t, cxx.AccessPublic, vars[0].Access())
	assert.False(t, vars[0].Const)

	assert.Equal(t, "id", vars[1].Name())
	assert.Equal(t, "const int", vars[1].Type)
	assert.True(t, vars[1].Const)

	assert.Equal(t, "secret", vars[2].Name())
	assert.Equal(t, cxx.AccessPrivate, vars[2].Access())
}

func TestParse_DefaultAccess(t *testing.T) {
	tree := parse(t, `
class A { int hidden; };
struct B { int shown; };
`)

	a := lookup[*cxx.Class](t, tree, "A")
	require.Len(t, a.DataMembers(), 1)
	assert.Equal(t, cxx.AccessPrivate, a.DataMembers()[0].Access())

	b := lookup[*cxx.Class](t, tree, "B")
	require.Len(t, b.DataMembers(), 1)
	assert.Equal(t, cxx.AccessPublic, b.DataMembers()[0].Access())
}

func TestParse_Reparse(t *testing.T) {
	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))
	ctx := context.Background()

	for range 2 {
		require.NoError(t, Parse(ctx, tree, "test.h", []byte(pointSource)))
	}

	c := lookup[*cxx.Class](t, tree, "Point")
	assert.Len(t, c.Constructors(), 2)
	assert.Len(t, c.Methods(), 3)
	assert.Len(t, c.DataMembers(), 3)
}

func TestParse_FreeFunctions(t *testing.T) {
	tree := parse(t, `
namespace util {
// pxx :: export
int scale(int v, int by = 2);
double scale(double v);
void reset(void);
inline void skip(int /*unused*/) {}
}
`)

	o := lookup[*cxx.Overload[*cxx.Function]](t, tree, "util::scale")
	require.Equal(t, 2, o.Len())

	first := o.Members()[0]
	assert.True(t, first.Exported())
	assert.Equal(t, "int", first.ReturnType)
	assert.Equal(t, []cxx.Param{{Name: "v", Type: "int"}, {Name: "by", Type: "int"}}, first.Params)
	assert.Equal(t, "(int)(*)(int, int)", first.PointerType())
	assert.False(t, o.Members()[1].Exported())

	reset := lookup[*cxx.Overload[*cxx.Function]](t, tree, "util::reset")
	assert.Empty(t, reset.Members()[0].Params)

	skip := lookup[*cxx.Overload[*cxx.Function]](t, tree, "util::skip")
	assert.Equal(t, []cxx.Param{{Type: "int"}}, skip.Members()[0].Params)
}

func TestParse_Aliases(t *testing.T) {
	tree := parse(t, `
namespace n {
struct P { int x; };
typedef P Q;
using R = std::vector<P>;
typedef struct { int y; } S;
}
`)

	q := lookup[*cxx.TypeAlias](t, tree, "n::Q")
	assert.Equal(t, "P", q.Target)
	assert.Equal(t, "n::P", q.QualifiedName())

	r := lookup[*cxx.TypeAlias](t, tree, "n::R")
	assert.Equal(t, "std::vector<n::P>", r.QualifiedName())

	s := lookup[*cxx.Class](t, tree, "n::S")
	require.Len(t, s.DataMembers(), 1)
	assert.Equal(t, "y", s.DataMembers()[0].Name())
}

const sumSource = `
#include <array>

namespace ns {

// pxx :: export
// pxx :: instance(["int", "3"])
template <typename T, int N>
class Sum {
public:
  Sum(const T& init);
  T sum() const;
  std::array<T, N> data;
};

template <typename t>
class Sum<t, 0> {
public:
  t zero() const;
};

template class Sum<int, 0>;

}
`

func TestParse_ClassTemplate(t *testing.T) {
	tree := parse(t, sumSource)

	assert.Equal(t, []string{"<array>"}, tree.Includes())

	tmpl := lookup[*cxx.ClassTemplate](t, tree, "ns::Sum")
	assert.Equal(t, []string{"T", "N"}, tmpl.Params())
	assert.True(t, tmpl.Exported())

	specs := tmpl.Specializations()
	require.Len(t, specs, 1)
	assert.Equal(t, cxx.Key("<$0,0>"), specs[0].Key)
	assert.Equal(t, "ns::Sum<t,0>", specs[0].Decl.QualifiedName())

	instances := tmpl.Instances()
	require.Len(t, instances, 2)

	three, zero := instances[0].Decl, instances[1].Decl

	assert.Equal(t, "ns::Sum<int,3>", three.QualifiedName())
	assert.Equal(t, tmpl.Key(), instances[0].Key)
	require.Len(t, three.DataMembers(), 1)
	assert.Equal(t, "std::array<int, 3>", three.DataMembers()[0].Type)
	require.Len(t, three.Constructors(), 1)
	assert.Equal(t, "const int&", three.Constructors()[0].Params[0].Type)

	assert.Equal(t, "ns::Sum<int,0>", zero.QualifiedName())
	assert.Equal(t, cxx.Key("<$0,0>"), instances[1].Key)
	require.Len(t, zero.Methods(), 1)
	assert.Equal(t, "zero", zero.Methods()[0].Name())
	assert.Equal(t, "int", zero.Methods()[0].ReturnType)

	assert.Empty(t, tree.Diagnostics())
}

const instantiationSource = `
template<typename T>
void function(T t) {}

template<typename t, int N>
class Class {
};

template <typename t>
class Class<t, 0> {
};

template class Class<int, 0>;

namespace test {

template <typename t, int N> class OtherClass {};
template <typename t> class OtherClass<t, 0> {};
} // namespace test

template class test::OtherClass<int, 0>;
`

func TestParse_ExplicitInstantiation(t *testing.T) {
	tests := []struct {
		template string
		instance string
	}{
		{"Class", "Class<int,0>"},
		{"test::OtherClass", "test::OtherClass<int,0>"},
	}

	tree := parse(t, instantiationSource, WithStrict(true))
	assert.Empty(t, tree.Diagnostics())

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tmpl := lookup[*cxx.ClassTemplate](t, tree, tt.template)

			instances := tmpl.Instances()
			require.Len(t, instances, 1)
			assert.Equal(t, tt.instance, instances[0].Decl.QualifiedName())
			assert.Equal(t, cxx.Key("<$0,0>"), instances[0].Key)
		})
	}
}

func TestParse_ExplicitInstantiationStrict(t *testing.T) {
	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))

	err := Parse(context.Background(), tree, "box.h", []byte(`
template <typename T> struct Box { T value; };
template struct Box<int>;
`), WithStrict(true))
	require.NoError(t, err)
	require.NoError(t, tree.Instantiate(context.Background()))

	instances := lookup[*cxx.ClassTemplate](t, tree, "Box").Instances()
	require.Len(t, instances, 1)
	assert.Equal(t, "Box<int>", instances[0].Decl.QualifiedName())
}

func TestParse_FunctionTemplate(t *testing.T) {
	tree := parse(t, `
// pxx :: export
// pxx :: instance(["double", "4"])
template<typename Scalar, size_t N>
Scalar sum(std::array<Scalar, N> x) {
  Scalar result = 0.0;
  return result;
}

namespace detail {
// pxx :: instance("hidden_sum", ["float", "3"])
template<typename Scalar, size_t N>
Scalar sum(std::array<Scalar, N> x) { return x[0]; }
}

template float sum(std::array<float, 3>);

// pxx :: export
void test(int /*a*/) {}
`)

	o := lookup[*cxx.Overload[*cxx.FunctionTemplate]](t, tree, "sum")
	require.Equal(t, 1, o.Len())

	tmpl := o.Members()[0]
	assert.Equal(t, []string{"Scalar", "N"}, tmpl.Params())

	instances := tmpl.Instances()
	require.Len(t, instances, 2)
	assert.Equal(t, "sum<double,4>", instances[0].Decl.QualifiedName())
	assert.Equal(t, "double", instances[0].Decl.ReturnType)
	assert.Equal(t, "sum<float,3>", instances[1].Decl.QualifiedName())
	assert.Equal(t, "std::array<float, 3>", instances[1].Decl.Params[0].Type)

	hidden := lookup[*cxx.Overload[*cxx.FunctionTemplate]](t, tree, "detail::sum").Members()[0]
	require.Len(t, hidden.Instances(), 1)
	assert.Equal(t, "hidden_sum", hidden.Instances()[0].Name)
	assert.Equal(t, "detail::sum<float,3>", hidden.Instances()[0].Decl.QualifiedName())

	test := lookup[*cxx.Overload[*cxx.Function]](t, tree, "test")
	assert.True(t, test.Members()[0].Exported())
}

func TestParse_UnknownTemplate(t *testing.T) {
	tree := parse(t, `
template <typename T>
class Missing<T, 0> {};
`)

	diags := tree.Diagnostics()
	require.NotEmpty(t, diags)
	assert.ErrorIs(t, diags[len(diags)-1], cxx.ErrUnknownTemplate)
}

func TestParse_CommentAttachment(t *testing.T) {
	tree := parse(t, `// pxx :: export

class A {};
// pxx :: export
class B {};
int x; // pxx :: export
class C {};
// pxx :: export
// documentation between directives
// pxx :: hide
class D {};
`)

	tests := map[string]bool{"A": false, "B": true, "C": false, "D": false}

	for name, want := range tests {
		assert.Equal(t, want, lookup[*cxx.Class](t, tree, name).Exported(), name)
	}
}

func TestParse_InheritedExport(t *testing.T) {
	tree := parse(t, `
// pxx :: export
namespace api {
class Shown {};
// pxx :: hide
class Hidden { public: int v; };
}
`)

	assert.True(t, lookup[*cxx.Class](t, tree, "api::Shown").Exported())

	hidden := lookup[*cxx.Class](t, tree, "api::Hidden")
	assert.False(t, hidden.Exported())
	assert.False(t, hidden.DataMembers()[0].Exported())
}

func TestParse_InheritedSettings(t *testing.T) {
	tree := parse(t, `
// pxx :: export("Vec")
// pxx :: instance(["int"])
namespace lin {
template <typename T> struct Box { T v; };
// pxx :: export("Pair")
struct Two { int a; };
}
`)

	box := lookup[*cxx.ClassTemplate](t, tree, "lin::Box")
	require.Len(t, box.Instances(), 1)
	assert.Equal(t, "lin::Box<int>", box.Instances()[0].Decl.QualifiedName())
	assert.Equal(t, "Box", box.Instances()[0].Name)

	two := lookup[*cxx.Class](t, tree, "lin::Two")
	assert.Equal(t, "Pair", two.ExportName())
	assert.Equal(t, "a", two.DataMembers()[0].ExportName())

	assert.Empty(t, tree.Diagnostics())
}

func TestParse_DirectiveErrors(t *testing.T) {
	tree := parse(t, `
// pxx :: export
// pxx :: instance(3)
class A {};
`, WithDirectives(directive.New(directive.WithLogger(log.Logger{}))))

	diags := tree.Diagnostics()
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], directive.ErrSyntax)
	assert.Equal(t, 3, diags[0].Location.Line)

	assert.True(t, lookup[*cxx.Class](t, tree, "A").Exported())
}

func TestParse_SyntaxError(t *testing.T) {
	src := []byte("class A { int x; \n")

	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))
	require.NoError(t, Parse(context.Background(), tree, "bad.h", src))

	diags := tree.Diagnostics()
	require.NotEmpty(t, diags)
	assert.ErrorIs(t, diags[0], ErrSyntax)
	assert.Equal(t, "bad.h", diags[0].Location.File)

	strict := cxx.NewTree(cxx.WithLogger(log.Logger{}))
	err := Parse(context.Background(), strict, "bad.h", src, WithStrict(true))
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))
	err := Parse(ctx, tree, "test.h", []byte(pointSource))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestParseFile_Missing(t *testing.T) {
	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))

	err := ParseFile(context.Background(), tree, "/nonexistent/pxx/test.h")
	assert.Error(t, err)
}

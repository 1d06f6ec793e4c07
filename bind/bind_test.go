package bind

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/frontend"
	"github.com/ardnew/pxx/log"
)

const geometrySource = `
#include <array>
#include <vector>

namespace geo {

// pxx :: export
class Point {
public:
  Point();
  Point(double x, double y);
  double norm() const;
  void scale(double f);
  void scale(double fx, double fy);
  static Point origin();
  double x;
  const int id = 0;
private:
  double secret;
};

// pxx :: export
double distance(const Point& a, const Point& b);
// pxx :: export
double distance(const std::vector<Point>& path);

double hidden(Point p);

// pxx :: export
// pxx :: instance(["int", "3"])
// pxx :: instance("Sum3d", ["double", "3"])
template <typename T, int N>
class Sum {
public:
  T total() const;
  std::array<T, N> data;
};

// pxx :: export
// pxx :: instance("dot3", ["float", "3"])
template <typename T, int N>
T dot(std::array<T, N> a, std::array<T, N> b);

}
`

func describe(t *testing.T, src string, opts ...Option) Module {
	t.Helper()

	ctx := context.Background()
	tree := cxx.NewTree(cxx.WithLogger(log.Logger{}))

	require.NoError(t, frontend.Parse(ctx, tree, "geometry.h", []byte(src)))
	require.NoError(t, tree.Instantiate(ctx))

	m, err := Describe(tree, append([]Option{WithName("geometry")}, opts...)...)
	require.NoError(t, err)

	return m
}

func classNamed(t *testing.T, m Module, qn string) Class {
	t.Helper()

	for _, c := range m.Classes {
		if c.QualifiedName == qn {
			return c
		}
	}

	require.Failf(t, "class not described", "%s", qn)

	return Class{}
}

func TestDescribe_Class(t *testing.T) {
	m := describe(t, geometrySource)

	assert.Equal(t, "geometry", m.Name)
	assert.True(t, m.UsesStd)
	assert.False(t, m.UsesEigen)

	p := classNamed(t, m, "geo::Point")
	assert.Equal(t, "Point", p.Name)
	assert.Empty(t, p.Template)

	require.Len(t, p.Constructors, 2)
	assert.Empty(t, p.Constructors[0].Arguments)
	assert.Equal(t, []string{"double", "double"}, p.Constructors[1].ArgumentTypes())

	require.Len(t, p.Methods, 4)

	norm := p.Methods[0]
	assert.Equal(t, "geo::Point::norm", norm.QualifiedName)
	assert.True(t, norm.Const)
	assert.Equal(t, 1, norm.Overloads)
	assert.Equal(t, "&geo::Point::norm", norm.Ref())

	scale := p.Methods[1]
	assert.Equal(t, 2, scale.Overloads)
	assert.Equal(t, "void(geo::Point::*)(double)", scale.PointerType)
	assert.Equal(t, "static_cast<void(geo::Point::*)(double)>(&geo::Point::scale)", scale.Ref())

	origin := p.Methods[3]
	assert.True(t, origin.Static)
	assert.Equal(t, "geo::Point", origin.ReturnType)

	require.Len(t, p.DataMembers, 2)
	assert.Equal(t, Variable{Name: "x", QualifiedName: "geo::Point::x", Type: "double"}, p.DataMembers[0])
	assert.True(t, p.DataMembers[1].Const)
}

func TestDescribe_Functions(t *testing.T) {
	m := describe(t, geometrySource)

	var names []string
	for _, f := range m.Functions {
		names = append(names, f.QualifiedName)
	}

	assert.Equal(t, []string{"geo::distance", "geo::distance", "geo::dot<float,3>"}, names)

	d := m.Functions[0]
	assert.Equal(t, "distance", d.Name)
	assert.Equal(t, "double", d.ReturnType)
	assert.Equal(t, []Argument{{Name: "a", Type: "const geo::Point&"}, {Name: "b", Type: "const geo::Point&"}}, d.Arguments)
	assert.True(t, d.HasOverload())
	assert.Equal(t, "(double)(*)(const geo::Point&, const geo::Point&)", d.PointerType)
	assert.Equal(t,
		"static_cast<double (*)(const geo::Point&, const geo::Point&)>(&geo::distance)",
		d.Ref())

	assert.Equal(t, "const std::vector<geo::Point>&", m.Functions[1].Arguments[0].Type)

	dot := m.Functions[2]
	assert.Equal(t, "dot3", dot.Name)
	assert.Equal(t, "geo::dot", dot.Template)
	assert.Equal(t, "float", dot.ReturnType)
	assert.Equal(t, "&geo::dot<float,3>", dot.Ref())
}

func TestDescribe_ClassInstances(t *testing.T) {
	m := describe(t, geometrySource)

	i3 := classNamed(t, m, "geo::Sum<int,3>")
	assert.Equal(t, "Sum", i3.Name)
	assert.Equal(t, "geo::Sum", i3.Template)
	assert.Equal(t, "<$0,$1>", i3.Key)
	require.Len(t, i3.Methods, 1)
	assert.Equal(t, "int", i3.Methods[0].ReturnType)
	require.Len(t, i3.DataMembers, 1)
	assert.Equal(t, "std::array<int, 3>", i3.DataMembers[0].Type)

	d3 := classNamed(t, m, "geo::Sum<double,3>")
	assert.Equal(t, "Sum3d", d3.Name)
}

func TestDescribe_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		classes  int
		funcs    int
	}{
		{"none", nil, 3, 3},
		{"everything", []string{"**"}, 3, 3},
		{"one class", []string{"geo::Point"}, 1, 0},
		{"instances", []string{"geo::Sum<*>"}, 2, 0},
		{"functions", []string{"geo::d*"}, 0, 3},
		{"single level", []string{"*"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := describe(t, geometrySource, WithMatch(tt.patterns...))
			assert.Len(t, m.Classes, tt.classes)
			assert.Len(t, m.Functions, tt.funcs)
		})
	}
}

func TestDescribe_InvalidPattern(t *testing.T) {
	_, err := Describe(cxx.NewTree(cxx.WithLogger(log.Logger{})), WithMatch("geo::[a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestDescribe_Eigen(t *testing.T) {
	m := describe(t, `
// pxx :: export
Eigen::VectorXd twice(const Eigen::VectorXd& v);
`)

	assert.True(t, m.UsesEigen)
	assert.False(t, m.UsesStd)
}

func TestDescribe_Includes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		std   bool
		eigen bool
	}{
		{"none", "// pxx :: export\nint f();\n", false, false},
		{"standard", "#include <vector>\n// pxx :: export\nint f();\n", true, false},
		{"local", "#include \"vector.h\"\n#include <sys/types.h>\n// pxx :: export\nint f();\n", false, false},
		{"eigen", "#include \"Eigen/Core\"\n// pxx :: export\nint f();\n", false, true},
		{"eigen tensor", "#include <unsupported/Eigen/CXX11/Tensor>\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := describe(t, tt.src)
			assert.Equal(t, tt.std, m.UsesStd)
			assert.Equal(t, tt.eigen, m.UsesEigen)
		})
	}
}

func TestModule_FormatJSON(t *testing.T) {
	m := describe(t, geometrySource, WithMatch("geo::Point"))

	var b bytes.Buffer
	require.NoError(t, m.FormatJSON(&b, 2))

	var got map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))

	assert.Equal(t, "geometry", got["name"])
	assert.Equal(t, true, got["uses_std"])

	classes, ok := got["classes"].([]any)
	require.True(t, ok)
	require.Len(t, classes, 1)
	assert.Equal(t, "geo::Point", classes[0].(map[string]any)["qualified_name"])

	b.Reset()
	require.NoError(t, m.FormatJSON(&b, 0))
	assert.Equal(t, 1, strings.Count(b.String(), "\n"))
}

func TestModule_FormatYAML(t *testing.T) {
	m := describe(t, geometrySource, WithMatch("geo::dot*"))

	var b bytes.Buffer
	require.NoError(t, m.FormatYAML(context.Background(), &b, 2))

	var got Module
	require.NoError(t, yaml.Unmarshal(b.Bytes(), &got))
	assert.Equal(t, m, got)
}

package cxx

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Dump(t *testing.T) {
	tree, tmpl := sumFixture(t, []string{"int", "3"})
	tmpl.Primary().Inner().Add(NewMemberFunction(at("sum", 9), "T", []Param{{Name: "from", Type: "int"}}, true, false))

	require.NoError(t, tree.Instantiate(context.Background()))

	var buf strings.Builder
	require.NoError(t, tree.Dump(&buf))

	out := buf.String()

	for _, want := range []string{
		"scope ::\n",
		"\n  namespace ns\n",
		"\n    class template ns::Sum<T, N> [exported]\n",
		"\n      class ns::Sum [exported]\n",
		"\n        variable std::array<T,N> ns::Sum::data\n",
		"\n        alias ns::Sum::value_type = T\n",
		"\n        constructor ns::Sum(const T& init)\n",
		"\n        overload ns::Sum::sum (2)\n",
		"\n          method T ns::Sum::sum(int from) const\n",
		"\n      instance <$0,$1> as Sum\n",
		"\n        class ns::Sum<int,3> [exported, as Sum]\n",
		"\n          variable std::array<int,3> ns::Sum<int,3>::data\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTree_DumpFlags(t *testing.T) {
	tree := newTestTree()

	c := tree.Root().Add(NewClass(Info{
		Name:     "Hidden",
		Access:   AccessPrivate,
		Settings: ExportSettings{}.Export().Rename("Shown"),
	}, true))

	var buf strings.Builder
	require.NoError(t, tree.Dump(&buf))

	assert.Equal(t, "scope ::\n  struct Hidden [private, exported, as Shown]\n", buf.String())
	assert.Equal(t, "Shown", c.(*Class).ExportName())
}

func TestDumpNode(t *testing.T) {
	tree := newTestTree()

	ns := tree.Root().Add(NewNamespace(Info{Name: "geo"})).(*Namespace)
	ns.Inner().Add(NewFunction(Info{Name: "norm"}, "double", Param{Name: "x", Type: "double"}))

	var buf strings.Builder
	require.NoError(t, DumpNode(&buf, ns))

	assert.Equal(t, "namespace geo\n  function double geo::norm(double x)\n", buf.String())
}

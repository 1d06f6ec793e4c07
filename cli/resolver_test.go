package cli

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_Flatten(t *testing.T) {
	doc := `
log-level: debug
log:
  pretty: false
  time_layout: kitchen
include:
  - /opt/eigen3/include
  - /usr/local/include
pprof-dir: /tmp/pprof
indent: 4
`

	r, err := resolve(context.Background())(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	c, ok := r.(config)
	if !ok {
		t.Fatalf("resolver is %T", r)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-pretty", false},
		{"log-time-layout", "kitchen"},
		{"include", "/opt/eigen3/include,/usr/local/include"},
		{"pprof-dir", "/tmp/pprof"},
		{"indent", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := c.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	r, err := resolve(context.Background())(strings.NewReader("log-level: warn\n"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "missing"}})
	if err != nil || got != nil {
		t.Errorf("Resolve(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, doc := range []string{"", "- not\n- a mapping\n", ": : :"} {
		r, err := resolve(context.Background())(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("resolve(%q): %v", doc, err)
		}

		if c, ok := r.(config); !ok || len(c) != 0 {
			t.Errorf("resolve(%q) = %#v, want empty config", doc, r)
		}
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	t.Setenv(includeEnv, strings.Join([]string{b, "/does/not/exist", a}, string(os.PathListSeparator)))

	got := searchPath([]string{a, "/also/missing"})

	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("searchPath = %v, want [%s %s]", got, a, b)
	}
}

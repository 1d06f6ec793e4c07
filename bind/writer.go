package bind

import (
	_ "embed"
	"io"
	"strings"
	"text/template"

	"github.com/ardnew/pxx/pkg"
)

// Banner opens generated source unless [Settings.Header] replaces it.
const Banner = "////////////////////////////////////////////\n" +
	"// Python bindings auto-generated by pxx. //\n" +
	"////////////////////////////////////////////"

//go:embed module.cpp.tmpl
var moduleSource string

var funcs = template.FuncMap{
	"banner":   func() string { return Banner },
	"join":     strings.Join,
	"accessor": accessor,
}

// Writer renders modules as pybind11 source.
type Writer struct {
	tmpl *template.Template
}

// NewWriter returns a writer using the built-in module template.
func NewWriter() *Writer {
	return &Writer{
		tmpl: template.Must(template.New("module").Funcs(funcs).Parse(moduleSource)),
	}
}

type page struct {
	Module

	Header   string
	Includes []string
}

// Write renders m to w. The module name in s takes precedence over the one
// recorded in m; one of them must be set.
func (wr *Writer) Write(w io.Writer, m Module, s Settings) error {
	if s.Module != "" {
		m.Name = s.Module
	}

	if m.Name == "" {
		return ErrRender.Wrapf("no module name")
	}

	var b strings.Builder

	err := wr.tmpl.Execute(&b, page{
		Module:   m,
		Header:   strings.TrimRight(s.Header, "\n"),
		Includes: s.Includes,
	})
	if err != nil {
		return ErrRender.Wrap(err)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// accessor returns the pybind11 class method binding v.
func accessor(v Variable) string {
	name := "def_readwrite"
	if v.Const {
		name = "def_readonly"
	}

	if v.Static {
		name += "_static"
	}

	return name
}

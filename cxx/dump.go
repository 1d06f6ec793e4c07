package cxx

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented listing of every scope and declaration of t.
func (t *Tree) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d := dumper{w: bw}

	d.line(0, "scope ::")
	d.scope(t.Root(), 1)

	if d.err != nil {
		return d.err
	}

	return bw.Flush()
}

// DumpNode writes the listing of n and everything declared inside it.
func DumpNode(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	d := dumper{w: bw}

	d.node(n, 0)

	if d.err != nil {
		return d.err
	}

	return bw.Flush()
}

type dumper struct {
	w   *bufio.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}

	_, d.err = fmt.Fprintf(d.w, "%s"+format+"\n",
		append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (d *dumper) scope(s *Scope, depth int) {
	if s == nil {
		return
	}

	for n := range s.Symbols() {
		d.node(n, depth)
	}
}

func (d *dumper) node(n Node, depth int) {
	switch n := n.(type) {
	case *Namespace:
		d.line(depth, "namespace %s%s", n.QualifiedName(), flags(n))
		d.scope(n.Inner(), depth+1)
	case *Class:
		d.class(n, depth)
	case *Constructor:
		d.line(depth, "constructor %s(%s)%s", n.QualifiedName(), params(n.Params), flags(n))
	case *MemberFunction:
		q := ""
		if n.Const {
			q += " const"
		}

		if n.Static {
			q += " static"
		}

		d.line(depth, "method %s %s(%s)%s%s", n.ReturnType, n.QualifiedName(), params(n.Params), q, flags(n))
	case *Function:
		d.line(depth, "function %s %s(%s)%s", n.ReturnType, n.QualifiedName(), params(n.Params), flags(n))
	case *MemberVariable:
		d.line(depth, "variable %s %s%s", n.Type, n.Decl.QualifiedName(), flags(n))
	case *TypeAlias:
		d.line(depth, "alias %s = %s%s", n.Decl.QualifiedName(), n.Target, flags(n))
	case *ClassTemplate:
		d.line(depth, "class template %s<%s>%s", n.QualifiedName(), strings.Join(n.params, ", "), flags(n))
		d.class(n.primary, depth+1)

		for _, s := range n.Specializations() {
			d.line(depth+1, "specialization %s", s.Key)
			d.class(s.Decl, depth+2)
		}

		for _, in := range n.instances {
			d.line(depth+1, "instance %s as %s", in.Key, in.Name)
			d.class(in.Decl, depth+2)
		}
	case *FunctionTemplate:
		d.line(depth, "function template %s<%s>%s", n.QualifiedName(), strings.Join(n.params, ", "), flags(n))
		d.node(n.primary, depth+1)

		for _, s := range n.Specializations() {
			d.line(depth+1, "specialization %s", s.Key)
			d.node(s.Decl, depth+2)
		}

		for _, in := range n.instances {
			d.line(depth+1, "instance %s as %s", in.Key, in.Name)
			d.node(in.Decl, depth+2)
		}
	case *Overload[*Function]:
		dumpOverload(d, n, depth)
	case *Overload[*MemberFunction]:
		dumpOverload(d, n, depth)
	case *Overload[*Constructor]:
		dumpOverload(d, n, depth)
	case *Overload[*FunctionTemplate]:
		dumpOverload(d, n, depth)
	}
}

func dumpOverload[F callable](d *dumper, o *Overload[F], depth int) {
	if o.Len() == 1 {
		d.node(o.members[0], depth)

		return
	}

	d.line(depth, "overload %s (%d)", o.QualifiedName(), o.Len())

	for _, m := range o.members {
		d.node(m, depth+1)
	}
}

func (d *dumper) class(c *Class, depth int) {
	kw := "class"
	if c.Struct {
		kw = "struct"
	}

	d.line(depth, "%s %s%s", kw, c.QualifiedName(), flags(c))
	d.scope(c.Inner(), depth+1)
}

func params(ps []Param) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}

	return strings.Join(s, ", ")
}

func flags(n Node) string {
	var f []string

	if a := n.Access(); a != AccessPublic {
		f = append(f, a.String())
	}

	st := n.Settings()
	if st.Exported {
		f = append(f, "exported")
	}

	if st.ExportName != "" && st.ExportName != n.Name() {
		f = append(f, "as "+st.ExportName)
	}

	if len(f) == 0 {
		return ""
	}

	return " [" + strings.Join(f, ", ") + "]"
}

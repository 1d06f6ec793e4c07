package frontend

import (
	"log/slog"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ardnew/pxx/cxx"
)

// header is the parameter list of an enclosing template declaration.
type header struct {
	params []string
	// node is the template declaration; comments attach to it.
	node *sitter.Node
}

func (h *header) outer(n *sitter.Node) *sitter.Node {
	if h == nil {
		return n
	}

	return h.node
}

func (w *walker) template(f frame, n *sitter.Node) {
	h := &header{params: w.templateParams(n.ChildByFieldName("parameters")), node: n}

	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)

		switch c.Kind() {
		case "template_parameter_list", "requires_clause", "comment":
			continue
		case "template_declaration":
			w.unsupported(c, "nested template declaration")

			return
		case "friend_declaration", "concept_definition":
			return
		}

		w.decl(f, c, h)

		return
	}
}

// templateParams returns the parameter names of a template parameter list
// in declaration order. Unnamed parameters are named by their position.
func (w *walker) templateParams(list *sitter.Node) []string {
	if list == nil {
		return nil
	}

	var params []string

	for i := range list.NamedChildCount() {
		p := list.NamedChild(i)

		var name string

		switch p.Kind() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			name = w.firstOfKind(p, "type_identifier")
		case "optional_type_parameter_declaration":
			name = w.text(p.ChildByFieldName("name"))
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			if d := w.unwrap(p.ChildByFieldName("declarator")); d.name != nil {
				name = w.text(d.name)
			}
		case "template_template_parameter_declaration":
			for j := range p.NamedChildCount() {
				c := p.NamedChild(j)
				if c.Kind() != "template_parameter_list" {
					name = w.firstOfKind(c, "type_identifier")
				}
			}
		default:
			continue
		}

		if name == "" {
			name = "$" + string(rune('a'+len(params)))
		}

		params = append(params, name)
	}

	return params
}

func (w *walker) firstOfKind(n *sitter.Node, kind string) string {
	for i := range n.NamedChildCount() {
		if c := n.NamedChild(i); c.Kind() == kind {
			return w.text(c)
		}
	}

	return ""
}

// specialization reads a partial or explicit class template
// specialization whose name is the template type nameNode.
func (w *walker) specialization(f frame, n, outer *sitter.Node, h *header, nameNode *sitter.Node, isStruct bool) {
	base := w.text(nameNode.ChildByFieldName("name"))
	args := w.templateArgs(nameNode.ChildByFieldName("arguments"))

	t, ok := w.classTemplate(f.scope, base)
	if !ok {
		w.tree.Report(w.location(n), cxx.ErrUnknownTemplate.With(
			slog.String("name", base),
			slog.String("args", "<"+strings.Join(args, ",")+">"),
		))

		return
	}

	var params []string
	if h != nil {
		params = h.params
	}

	spec := t.Specialize(cxx.NewClass(w.info(f, base, n, h.outer(outer)), isStruct), params, args)

	w.decls(f.member(spec, base), n.ChildByFieldName("body"))
}

// functionTemplate registers fn as a function template, or as a
// specialization of one when the declaration names template arguments or
// declares no template parameters.
func (w *walker) functionTemplate(f frame, n *sitter.Node, h *header, fn *cxx.Function, args []string) {
	if args == nil && len(h.params) > 0 {
		f.scope.Add(cxx.NewFunctionTemplate(fn, h.params...))

		return
	}

	for _, t := range w.functionTemplates(f.scope, fn.Name()) {
		targs, ok := w.deduce(t, args, fn.ReturnType, fn.ParamTypes())
		if !ok {
			continue
		}

		t.Specialize(fn, h.params, targs)

		return
	}

	w.tree.Report(w.location(n), cxx.ErrUnknownTemplate.With(
		slog.String("name", fn.Name()),
		slog.String("args", "<"+strings.Join(args, ",")+">"),
	))
}

// instantiation reads an explicit instantiation and queues it on the
// template it names.
func (w *walker) instantiation(f frame, n *sitter.Node) {
	d := n.ChildByFieldName("declarator")
	if d != nil && d.IsMissing() {
		d = nil
	}

	if d == nil {
		t := n.ChildByFieldName("type")
		if t == nil || !isClassSpecifier(t) {
			return
		}

		qualifier, name := w.qualified(t.ChildByFieldName("name"))
		if name == nil || name.Kind() != "template_type" {
			w.unsupported(n, "explicit instantiation")

			return
		}

		base := qualifier + w.text(name.ChildByFieldName("name"))
		args := w.templateArgs(name.ChildByFieldName("arguments"))

		tmpl, ok := w.classTemplate(f.scope, base)
		if !ok {
			w.tree.Report(w.location(n), cxx.ErrUnknownTemplate.With(slog.String("name", base)))

			return
		}

		tmpl.Request(cxx.InstanceRequest{Args: args})

		return
	}

	dc := w.unwrap(d)
	if dc.fn == nil || dc.name == nil {
		w.unsupported(n, "explicit instantiation")

		return
	}

	name, args := w.text(dc.name), []string(nil)

	if fn := templateFunction(dc.name); fn != nil {
		args = w.templateArgs(fn.ChildByFieldName("arguments"))
		name = strings.TrimSuffix(squash(w.text(dc.name)), squash(w.text(fn))) + w.text(fn.ChildByFieldName("name"))
	}

	ret, _ := w.typeOf(n, dc.suffix)

	params := w.params(dc.fn.ChildByFieldName("parameters"))
	types := make([]string, len(params))

	for i, p := range params {
		types[i] = p.Type
	}

	for _, t := range w.functionTemplates(f.scope, name) {
		if targs, ok := w.deduce(t, args, ret, types); ok {
			t.Request(cxx.InstanceRequest{Args: targs})

			return
		}
	}

	w.tree.Report(w.location(n), cxx.ErrUnknownTemplate.With(slog.String("name", name)))
}

// deduce returns the arguments of t for a declaration with explicit
// arguments args and the given signature. Explicit arguments may be a
// prefix of the deduced ones.
func (w *walker) deduce(t *cxx.FunctionTemplate, args []string, ret string, params []string) ([]string, bool) {
	if len(args) == len(t.Params()) {
		return args, true
	}

	deduced, ok := t.Deduce(ret, params)
	if !ok || len(args) > len(deduced) {
		return nil, false
	}

	for i, a := range args {
		if squash(a) != squash(deduced[i]) {
			return nil, false
		}
	}

	return deduced, true
}

// qualified splits a possibly qualified name into its "a::b::" qualifier
// and the unqualified name node.
func (w *walker) qualified(n *sitter.Node) (string, *sitter.Node) {
	var qualifier strings.Builder

	for n != nil && n.Kind() == "qualified_identifier" {
		if scope := n.ChildByFieldName("scope"); scope != nil {
			qualifier.WriteString(squash(w.text(scope)))
		}

		qualifier.WriteString("::")

		n = n.ChildByFieldName("name")
	}

	return qualifier.String(), n
}

func (w *walker) classTemplate(s *cxx.Scope, name string) (*cxx.ClassTemplate, bool) {
	n, ok := s.LookupSymbol(name)
	if !ok {
		return nil, false
	}

	t, ok := n.(*cxx.ClassTemplate)

	return t, ok
}

func (w *walker) functionTemplates(s *cxx.Scope, name string) []*cxx.FunctionTemplate {
	n, ok := s.LookupSymbol(name)
	if !ok {
		return nil
	}

	if o, ok := n.(*cxx.Overload[*cxx.FunctionTemplate]); ok {
		return slices.Clone(o.Members())
	}

	return nil
}

// templateFunction returns the template_function naming a qualified or
// unqualified function, or nil.
func templateFunction(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Kind() {
		case "template_function":
			return n
		case "qualified_identifier":
			n = n.ChildByFieldName("name")
		default:
			return nil
		}
	}

	return nil
}

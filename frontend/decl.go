package frontend

import (
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ardnew/pxx/cxx"
)

// declarator is a flattened declarator chain.
type declarator struct {
	// name is the declared name, nil for abstract declarators.
	name *sitter.Node
	// fn is the function declarator, nil unless a function is declared.
	fn *sitter.Node
	// suffix holds the pointer, reference and array parts of the type.
	suffix string
	// complex is set for declarators the walker cannot spell, such as
	// pointers to functions.
	complex bool
}

func (w *walker) unwrap(d *sitter.Node) declarator {
	var out declarator

	for d != nil {
		switch d.Kind() {
		case "pointer_declarator", "abstract_pointer_declarator":
			out.suffix += "*"

			for i := range d.NamedChildCount() {
				if c := d.NamedChild(i); c.Kind() == "type_qualifier" {
					out.suffix += " " + w.text(c)
				}
			}

			d = d.ChildByFieldName("declarator")

		case "reference_declarator", "abstract_reference_declarator":
			out.suffix += w.text(d.Child(0))

			if d.NamedChildCount() == 0 {
				return out
			}

			d = d.NamedChild(0)

		case "array_declarator", "abstract_array_declarator":
			out.suffix += "[" + w.text(d.ChildByFieldName("size")) + "]"
			d = d.ChildByFieldName("declarator")

		case "init_declarator":
			d = d.ChildByFieldName("declarator")

		case "function_declarator", "abstract_function_declarator":
			if out.fn != nil {
				out.complex = true

				return out
			}

			out.fn = d
			d = d.ChildByFieldName("declarator")

		case "parenthesized_declarator", "abstract_parenthesized_declarator":
			out.complex = true

			return out

		default:
			out.name = d

			return out
		}
	}

	return out
}

// typeOf spells the type declared by declaration n for a declarator with
// the given suffix. It reports whether the declared object is const.
func (w *walker) typeOf(n *sitter.Node, suffix string) (string, bool) {
	var (
		quals   []string
		isConst bool
	)

	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if c.Kind() != "type_qualifier" {
			continue
		}

		switch q := w.text(c); q {
		case "const", "volatile":
			quals = append(quals, q)
			isConst = isConst || q == "const"
		case "constexpr":
			isConst = true
		}
	}

	base := w.typeName(n.ChildByFieldName("type"))

	if strings.HasSuffix(strings.TrimSpace(suffix), "const") && strings.Contains(suffix, "*") {
		// the pointer itself is const
		isConst = true
	} else if strings.Contains(suffix, "*") || strings.Contains(suffix, "&") {
		isConst = false
	}

	return squash(strings.Join(append(quals, base), " ")) + suffix, isConst
}

// typeName spells a type specifier. Elaborated class specifiers without a
// body are spelled by their name.
func (w *walker) typeName(t *sitter.Node) string {
	if t == nil {
		return ""
	}

	switch t.Kind() {
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		if name := t.ChildByFieldName("name"); name != nil {
			return squash(w.text(name))
		}
	}

	return squash(w.text(t))
}

// params reads a parameter list. A lone void parameter declares none.
func (w *walker) params(list *sitter.Node) []cxx.Param {
	if list == nil {
		return nil
	}

	var out []cxx.Param

	for i := range list.NamedChildCount() {
		p := list.NamedChild(i)

		switch p.Kind() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}

		d := w.unwrap(p.ChildByFieldName("declarator"))

		typ, _ := w.typeOf(p, d.suffix)
		if p.Kind() == "variadic_parameter_declaration" && !strings.HasSuffix(typ, "...") {
			typ += "..."
		}

		var name string
		if d.name != nil {
			name = w.text(d.name)
		}

		out = append(out, cxx.Param{Name: name, Type: typ})
	}

	if len(out) == 1 && out[0].Name == "" && out[0].Type == "void" {
		return nil
	}

	return out
}

// callable reads the function declared by declarator d of declaration n.
func (w *walker) callable(f frame, n, d, outer *sitter.Node, h *header) {
	dc := w.unwrap(d)
	if dc.fn == nil || dc.name == nil || dc.complex {
		return
	}

	switch dc.name.Kind() {
	case "destructor_name", "operator_name", "operator_cast":
		w.unsupported(n, dc.name.Kind())

		return
	case "qualified_identifier":
		w.log.Trace("skipping out-of-line definition",
			slog.String("name", w.text(dc.name)),
			slog.String("location", w.location(n).String()),
		)

		return
	}

	for i := range n.NamedChildCount() {
		if n.NamedChild(i).Kind() == "delete_method_clause" {
			return
		}
	}

	name, args := w.text(dc.name), []string(nil)
	if dc.name.Kind() == "template_function" {
		name = w.text(dc.name.ChildByFieldName("name"))
		args = w.templateArgs(dc.name.ChildByFieldName("arguments"))
	}

	var (
		params   = w.params(dc.fn.ChildByFieldName("parameters"))
		ret, _   = w.typeOf(n, dc.suffix)
		isStatic = w.hasStorage(n, "static")
		isConst  bool
	)

	for i := range dc.fn.NamedChildCount() {
		if c := dc.fn.NamedChild(i); c.Kind() == "type_qualifier" && w.text(c) == "const" {
			isConst = true
		}
	}

	info := w.info(f, name, n, h.outer(outer))

	switch {
	case f.class != "" && h != nil:
		w.unsupported(n, "member function template")

	case f.class != "" && n.ChildByFieldName("type") == nil && name == f.class:
		f.scope.Add(cxx.NewConstructor(info, params...))

	case f.class != "":
		f.scope.Add(cxx.NewMemberFunction(info, ret, params, isConst, isStatic))

	case h != nil:
		w.functionTemplate(f, n, h, cxx.NewFunction(info, ret, params...), args)

	default:
		f.scope.Add(cxx.NewFunction(info, ret, params...))
	}
}

// class reads a class specifier. Name overrides the specifier's own name
// for anonymous classes named by a typedef.
func (w *walker) class(f frame, n, outer *sitter.Node, h *header, name string) {
	var (
		nameNode = n.ChildByFieldName("name")
		body     = n.ChildByFieldName("body")
		isStruct = n.Kind() == "struct_specifier"
	)

	if name == "" && nameNode == nil {
		w.log.Trace("skipping anonymous class", slog.String("location", w.location(n).String()))

		return
	}

	if nameNode != nil {
		switch nameNode.Kind() {
		case "qualified_identifier":
			w.log.Trace("skipping out-of-line class definition",
				slog.String("name", w.text(nameNode)),
				slog.String("location", w.location(n).String()),
			)

			return

		case "template_type":
			if body != nil {
				w.specialization(f, n, outer, h, nameNode, isStruct)
			}

			return
		}

		if name == "" {
			name = w.text(nameNode)
		}
	}

	info := w.info(f, name, n, h.outer(outer))
	if body == nil {
		// forward declarations never export on their own
		info.Settings = info.Settings.Hide()
	}

	if h != nil {
		if f.class != "" {
			w.unsupported(n, "member class template")

			return
		}

		got, ok := f.scope.Add(cxx.NewClassTemplate(cxx.NewClass(info, isStruct), h.params...)).(*cxx.ClassTemplate)
		if !ok {
			w.conflict(n, name)

			return
		}

		if body != nil {
			w.decls(f.member(got.Primary(), name), body)
		}

		return
	}

	got, ok := f.scope.Add(cxx.NewClass(info, isStruct)).(*cxx.Class)
	if !ok {
		w.conflict(n, name)

		return
	}

	if body != nil {
		w.decls(f.member(got, name), body)
	}
}

// templateArgs spells the arguments of a template argument list.
func (w *walker) templateArgs(list *sitter.Node) []string {
	if list == nil {
		return nil
	}

	args := make([]string, 0, list.NamedChildCount())

	for i := range list.NamedChildCount() {
		c := list.NamedChild(i)
		if c.Kind() == "comment" {
			continue
		}

		args = append(args, squash(w.text(c)))
	}

	return args
}

// squash collapses runs of whitespace into one space.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package frontend

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/ardnew/pxx/cxx"
	"github.com/ardnew/pxx/directive"
	"github.com/ardnew/pxx/log"
	"github.com/ardnew/pxx/pkg"
)

var language = sitter.NewLanguage(tree_sitter_cpp.Language())

// ParseFile reads the file at path and registers its declarations in tree.
func ParseFile(ctx context.Context, tree *cxx.Tree, path string, opts ...Option) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err)
	}

	return Parse(ctx, tree, path, src, opts...)
}

// Parse registers the declarations of the translation unit src in tree.
// Name labels source locations.
//
// Parse only fails if ctx is done, if the grammar cannot be loaded, or on
// a syntax error when running with [WithStrict]. Every other problem is
// recorded in [cxx.Tree.Diagnostics].
func Parse(ctx context.Context, tree *cxx.Tree, name string, src []byte, opts ...Option) error {
	w := &walker{
		ctx:  ctx,
		tree: tree,
		file: name,
		src:  src,
		log:  tree.Logger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.dirs == nil {
		w.dirs = directive.New(directive.WithLogger(w.log))
	}

	p := sitter.NewParser()
	defer p.Close()

	if err := p.SetLanguage(language); err != nil {
		return err
	}

	st := p.ParseCtx(ctx, src, nil)
	if st == nil {
		if err := ctx.Err(); err != nil {
			return err
		}

		return ErrSyntax.With(slog.String("file", name))
	}
	defer st.Close()

	root := st.RootNode()

	if bad := firstError(root); bad != nil {
		if err := w.syntaxError(bad); w.strict {
			return err
		}
	}

	w.log.Debug("parsing translation unit",
		slog.String("file", name),
		slog.Int("bytes", len(src)),
	)

	w.decls(frame{scope: tree.Root()}, root)

	return ctx.Err()
}

// walker registers the declarations of one translation unit.
type walker struct {
	ctx    context.Context
	tree   *cxx.Tree
	file   string
	src    []byte
	dirs   *directive.Parser
	log    log.Logger
	strict bool
}

// frame is the context a declaration is read in.
type frame struct {
	scope    *cxx.Scope
	settings cxx.ExportSettings
	// class is the unqualified name of the enclosing class, used to tell
	// constructors apart. It is empty outside class bodies.
	class  string
	access cxx.Access
}

// member returns the frame for the body of class c.
func (f frame) member(c *cxx.Class, base string) frame {
	access := cxx.AccessPrivate
	if c.Struct {
		access = cxx.AccessPublic
	}

	return frame{
		scope:    c.Inner(),
		settings: c.Settings(),
		class:    base,
		access:   access,
	}
}

// decls reads the declarations among the children of parent.
func (w *walker) decls(f frame, parent *sitter.Node) {
	for i := range parent.NamedChildCount() {
		if w.ctx.Err() != nil {
			return
		}

		c := parent.NamedChild(i)

		if c.Kind() == "access_specifier" {
			f.access = accessOf(w.text(c))

			continue
		}

		w.decl(f, c, nil)
	}
}

// decl reads one declaration. Header is the enclosing template parameter
// list, nil outside template declarations.
func (w *walker) decl(f frame, n *sitter.Node, h *header) {
	switch n.Kind() {
	case "namespace_definition":
		w.namespace(f, n)
	case "class_specifier", "struct_specifier":
		w.class(f, n, n, h, "")
	case "declaration", "field_declaration":
		w.declaration(f, n, h)
	case "function_definition":
		w.callable(f, n, n.ChildByFieldName("declarator"), n, h)
	case "template_declaration":
		w.template(f, n)
	case "template_instantiation":
		w.instantiation(f, n)
	case "alias_declaration":
		w.alias(f, n, h)
	case "type_definition":
		w.typedef(f, n)
	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Kind() == "declaration_list" {
				w.decls(f, body)
			} else {
				w.decl(f, body, h)
			}
		}
	case "preproc_include":
		if path := n.ChildByFieldName("path"); path != nil {
			w.tree.Include(strings.TrimSpace(w.text(path)))
		}
	case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		w.decls(f, n)
	case "ERROR":
		w.log.Trace("skipping unparsed text", slog.String("location", w.location(n).String()))
	}
}

func (w *walker) namespace(f frame, n *sitter.Node) {
	name, body := n.ChildByFieldName("name"), n.ChildByFieldName("body")
	if body == nil {
		return
	}

	if name == nil {
		w.log.Trace("skipping anonymous namespace", slog.String("location", w.location(n).String()))

		return
	}

	parts := strings.Split(w.text(name), "::")
	scope := f.scope

	var ns *cxx.Namespace

	for i, part := range parts {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "inline"))

		info := w.info(f, part, n, n)
		if i < len(parts)-1 {
			info.Settings = f.settings.Inherit()
		}

		got, ok := scope.Add(cxx.NewNamespace(info)).(*cxx.Namespace)
		if !ok {
			w.conflict(n, part)

			return
		}

		ns, scope = got, got.Inner()
	}

	w.decls(frame{scope: scope, settings: ns.Settings()}, body)
}

// declaration reads a declaration or member declaration: an optional class
// definition in its type followed by any number of declarators.
func (w *walker) declaration(f frame, n *sitter.Node, h *header) {
	declarators := w.fieldChildren(n, "declarator")

	if t := n.ChildByFieldName("type"); t != nil && isClassSpecifier(t) {
		if t.ChildByFieldName("body") != nil || len(declarators) == 0 {
			w.class(f, t, n, h, "")
		}
	}

	for _, d := range declarators {
		dc := w.unwrap(d)

		switch {
		case dc.fn != nil:
			w.callable(f, n, d, n, h)
		case n.Kind() == "field_declaration" && f.class != "" && h == nil:
			w.variable(f, n, dc)
		}
	}
}

func (w *walker) variable(f frame, n *sitter.Node, d declarator) {
	if d.name == nil || d.complex {
		w.unsupported(n, "member variable")

		return
	}

	typ, isConst := w.typeOf(n, d.suffix)

	f.scope.Add(cxx.NewMemberVariable(
		w.info(f, w.text(d.name), n, n),
		typ,
		isConst,
		w.hasStorage(n, "static"),
	))
}

func (w *walker) alias(f frame, n *sitter.Node, h *header) {
	if h != nil {
		w.unsupported(n, "alias template")

		return
	}

	name, typ := n.ChildByFieldName("name"), n.ChildByFieldName("type")
	if name == nil || typ == nil {
		return
	}

	f.scope.Add(cxx.NewTypeAlias(w.info(f, w.text(name), n, n), w.text(typ)))
}

func (w *walker) typedef(f frame, n *sitter.Node) {
	t := n.ChildByFieldName("type")

	for _, d := range w.fieldChildren(n, "declarator") {
		dc := w.unwrap(d)
		if dc.name == nil || dc.complex || dc.fn != nil {
			w.unsupported(n, "typedef")

			continue
		}

		name := w.text(dc.name)

		// typedef struct { ... } Name;
		if t != nil && isClassSpecifier(t) && t.ChildByFieldName("body") != nil {
			if t.ChildByFieldName("name") == nil {
				w.class(f, t, n, nil, name)

				continue
			}

			w.class(f, t, n, nil, "")
		}

		target, _ := w.typeOf(n, dc.suffix)
		f.scope.Add(cxx.NewTypeAlias(w.info(f, name, n, n), target))
	}
}

// info returns the attributes of a declaration named name read from n.
// Settings fold the directives in the comments above outer, the node that
// encloses n at the level where comments attach.
func (w *walker) info(f frame, name string, n, outer *sitter.Node) cxx.Info {
	return cxx.Info{
		Name:     name,
		Access:   f.access,
		Location: w.location(n),
		Origin:   cxx.Origin{File: w.file, Offset: int(n.StartByte())},
		Settings: w.settings(f, outer),
	}
}

// settings folds the directives above n into the settings inherited from f.
func (w *walker) settings(f frame, n *sitter.Node) cxx.ExportSettings {
	first, last := w.comments(n)
	if first == nil {
		return f.settings.Inherit()
	}

	s, err := w.dirs.Fold(f.settings.Inherit(), string(w.src[first.StartByte():last.EndByte()]))
	if err != nil {
		w.directiveErrors(w.location(first), err)
	}

	return s
}

// comments returns the first and last of the comments directly above n.
// Comments separated from n by a blank line, and comments trailing an
// earlier declaration on its last line, are not included.
func (w *walker) comments(n *sitter.Node) (first, last *sitter.Node) {
	next := n

	for c := n.PrevSibling(); c != nil && c.Kind() == "comment"; c = c.PrevSibling() {
		if c.EndPosition().Row+1 < next.StartPosition().Row {
			break
		}

		if p := c.PrevSibling(); p != nil && p.Kind() != "comment" &&
			p.EndPosition().Row == c.StartPosition().Row {
			break
		}

		first, next = c, c
		if last == nil {
			last = c
		}
	}

	return first, last
}

func (w *walker) directiveErrors(at cxx.Location, err error) {
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}

	for _, e := range errs {
		loc := at

		var se *directive.SyntaxError
		if errors.As(e, &se) {
			loc.Line += se.Line - 1
			loc.Column = 1
		}

		w.tree.Report(loc, e)
	}
}

// syntaxError reports the unparsed or missing node bad.
func (w *walker) syntaxError(bad *sitter.Node) error {
	text := w.text(bad)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	err := ErrSyntax.With(slog.String("text", text))
	if bad.IsMissing() {
		err = err.With(slog.String("missing", bad.Kind()))
	}

	loc := w.location(bad)
	if w.strict {
		return err.With(slog.String("location", loc.String()))
	}

	w.tree.Report(loc, err)

	return err
}

// firstError returns the first unparsed or missing node below n, or nil.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}

	for i := range n.ChildCount() {
		c := n.Child(i)
		if !c.HasError() && !c.IsMissing() {
			continue
		}

		if missingDeclarator(n, c) {
			continue
		}

		if bad := firstError(c); bad != nil {
			return bad
		}
	}

	return nil
}

// missingDeclarator reports whether c is the declarator the grammar
// expects after the class of an explicit instantiation such as
// "template class A<int>;". The statement is well formed without it.
func missingDeclarator(parent, c *sitter.Node) bool {
	if !c.IsMissing() || parent.Kind() != "template_instantiation" {
		return false
	}

	t := parent.ChildByFieldName("type")

	return t != nil && isClassSpecifier(t)
}

func (w *walker) conflict(n *sitter.Node, name string) {
	w.log.Debug("declaration conflicts with existing symbol",
		slog.String("name", name),
		slog.String("location", w.location(n).String()),
	)
}

func (w *walker) unsupported(n *sitter.Node, what string) {
	w.log.Trace(ErrUnsupported.Error(),
		slog.String("kind", what),
		slog.String("location", w.location(n).String()),
	)
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Utf8Text(w.src)
}

func (w *walker) location(n *sitter.Node) cxx.Location {
	p := n.StartPosition()

	return cxx.Location{File: w.file, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// fieldChildren returns every child of n in the named field.
func (w *walker) fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node

	for i := range n.ChildCount() {
		if n.FieldNameForChild(uint32(i)) == field {
			out = append(out, n.Child(i))
		}
	}

	return out
}

func (w *walker) hasStorage(n *sitter.Node, class string) bool {
	for i := range n.NamedChildCount() {
		c := n.NamedChild(i)
		if c.Kind() == "storage_class_specifier" && w.text(c) == class {
			return true
		}
	}

	return false
}

func accessOf(s string) cxx.Access {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":"))

	switch s {
	case "private":
		return cxx.AccessPrivate
	case "protected":
		return cxx.AccessProtected
	default:
		return cxx.AccessPublic
	}
}

func isClassSpecifier(n *sitter.Node) bool {
	k := n.Kind()

	return k == "class_specifier" || k == "struct_specifier"
}

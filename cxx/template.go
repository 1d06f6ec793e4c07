package cxx

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Key identifies a template declaration by its argument pattern: every
// token naming one of the declaration's own parameters is rendered as $i,
// everything else literally without whitespace. The primary of
// template <typename T, int N> has key <$0,$1>.
type Key string

// MakeKey returns the key of a declaration with parameters params whose
// argument pattern is args.
func MakeKey(params, args []string) Key {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}

	parts := make([]string, len(args))

	for i, a := range args {
		toks := tokenize(a)

		for j, t := range toks {
			if j > 0 && toks[j-1].text == "::" {
				continue
			}

			if v, ok := index[t.text]; ok {
				toks[j].text = "$" + strconv.Itoa(v)
			}
		}

		parts[i] = joinTokens(toks)
	}

	return Key("<" + strings.Join(parts, ",") + ">")
}

// templated lists the declarations a template can be built from.
type templated interface {
	*Class | *Function

	Node
	instantiate(owner *Scope, name string, rw func(string) string, s ExportSettings) Node
}

// Template is a class or function template: the primary declaration, its
// parameter names, the specializations declared for it and the instances
// generated from it.
type Template[D templated] struct {
	Decl

	primary   D
	params    []string
	specs     map[Key]*Specialization[D]
	specOrder []Key
	requests  []InstanceRequest
	instances []*Instance[D]
	handled   map[string]bool
}

type (
	ClassTemplate    = Template[*Class]
	FunctionTemplate = Template[*Function]
)

// Specialization is a partial or explicit specialization of a template.
type Specialization[D templated] struct {
	Key    Key
	Params []string
	Args   []string
	Decl   D
}

// Instance is a declaration generated from a template.
type Instance[D templated] struct {
	// Name is the exported name of the instance.
	Name string
	Args []string
	// Key identifies the declaration the instance was copied from.
	Key  Key
	Decl D
}

func newTemplate[D templated](primary D, params []string) *Template[D] {
	return &Template[D]{
		Decl:    makeDecl(primary.decl().Info()),
		primary: primary,
		params:  slices.Clone(params),
		specs:   make(map[Key]*Specialization[D]),
		handled: make(map[string]bool),
	}
}

// NewClassTemplate returns an unregistered class template.
func NewClassTemplate(primary *Class, params ...string) *ClassTemplate {
	return newTemplate(primary, params)
}

// NewFunctionTemplate returns an unregistered function template.
func NewFunctionTemplate(primary *Function, params ...string) *FunctionTemplate {
	return newTemplate(primary, params)
}

func (t *Template[D]) Kind() Kind {
	if _, ok := any(t.primary).(*Class); ok {
		return KindClassTemplate
	}

	return KindFunctionTemplate
}

// Primary returns the primary declaration.
func (t *Template[D]) Primary() D { return t.primary }

// Params returns the template parameter names in declaration order.
func (t *Template[D]) Params() []string { return slices.Clone(t.params) }

// Key returns the key of the primary declaration.
func (t *Template[D]) Key() Key { return MakeKey(t.params, t.params) }

// Specializations returns the specializations in declaration order.
func (t *Template[D]) Specializations() []*Specialization[D] {
	out := make([]*Specialization[D], len(t.specOrder))
	for i, k := range t.specOrder {
		out[i] = t.specs[k]
	}

	return out
}

// Instances returns the generated instances in generation order.
func (t *Template[D]) Instances() []*Instance[D] { return slices.Clone(t.instances) }

// Specialize files d as the specialization with parameters params and
// argument pattern args, and returns the canonical declaration for its key.
// The template must be registered.
func (t *Template[D]) Specialize(d D, params, args []string) D {
	key := MakeKey(params, args)
	if s, ok := t.specs[key]; ok {
		return s.Decl
	}

	pattern := make([]string, len(args))
	for i, a := range args {
		pattern[i] = normalize(a)
	}

	d.decl().name = t.name + "<" + strings.Join(pattern, ",") + ">"

	if t.tree != nil {
		t.tree.register(d, t.scope)
		t.tree.log.Trace("specialized",
			slog.String("template", t.QualifiedName()),
			slog.String("key", string(key)),
		)
	}

	t.specs[key] = &Specialization[D]{
		Key:    key,
		Params: slices.Clone(params),
		Args:   slices.Clone(args),
		Decl:   d,
	}
	t.specOrder = append(t.specOrder, key)

	return d
}

// Request queues an explicit instantiation.
func (t *Template[D]) Request(r InstanceRequest) {
	t.requests = append(t.requests, InstanceRequest{Name: r.Name, Args: slices.Clone(r.Args)})
}

// Deduce infers the template arguments of an explicit instantiation from
// its return and parameter types.
func (t *Template[D]) Deduce(returnType string, paramTypes []string) ([]string, bool) {
	f, ok := any(t.primary).(*Function)
	if !ok {
		return nil, false
	}

	pattern := f.ReturnType + "(" + strings.Join(f.ParamTypes(), ",") + ")"
	given := returnType + "(" + strings.Join(paramTypes, ",") + ")"

	u := newUnifier(t.params)
	if _, ok := u.unify(pattern, given); !ok || !u.complete() {
		return nil, false
	}

	return u.values, true
}

// Select returns the declaration an instance with args is copied from: the
// most specific matching specialization, or the primary. The returned names
// and values substitute the chosen declaration's parameters.
func (t *Template[D]) Select(args []string) (target D, key Key, names, values []string, err error) {
	target, key = t.primary, t.Key()
	names, values = t.params, trimAll(args)

	var (
		best  *Specialization[D]
		bestU *unifier
		score = -1
		tie   bool
	)

	given := "<" + strings.Join(args, ",") + ">"

	for _, k := range t.specOrder {
		s := t.specs[k]
		if len(s.Args) != len(args) {
			continue
		}

		u := newUnifier(s.Params)

		n, ok := u.unify("<"+strings.Join(s.Args, ",")+">", given)
		if !ok || !u.complete() {
			continue
		}

		switch {
		case n > score:
			best, bestU, score, tie = s, u, n, false
		case n == score:
			tie = true
		}
	}

	switch {
	case best == nil:
		return target, key, names, values, nil
	case tie:
		return target, key, names, values, ErrAmbiguousSpecialization.With(
			slog.String("template", t.QualifiedName()),
			slog.String("args", given),
		)
	}

	values = make([]string, len(bestU.values))
	for i, v := range bestU.values {
		values[i] = strings.TrimSpace(v)
	}

	return best.Decl, best.Key, best.Params, values, nil
}

// instantiator is a template awaiting instantiation.
type instantiator interface {
	instantiate()
}

func (t *Template[D]) instantiate() {
	pending := append(slices.Clone(t.settings.Instances), t.requests...)

	for _, r := range pending {
		id := r.Name + "\x00" + normalize(strings.Join(r.Args, "\x00"))
		if t.handled[id] {
			continue
		}

		t.handled[id] = true
		t.instantiateOne(r)
	}
}

func (t *Template[D]) instantiateOne(r InstanceRequest) {
	if len(r.Args) != len(t.params) {
		t.tree.Report(t.loc, ErrArityMismatch.With(
			slog.String("template", t.QualifiedName()),
			slog.Int("want", len(t.params)),
			slog.Int("got", len(r.Args)),
		))

		return
	}

	spelling := r.Spelling(t.name)

	exportName := r.Name
	if exportName == "" {
		exportName = t.name
	}

	for _, in := range t.instances {
		if normalize(in.Decl.Name()) != normalize(spelling) {
			continue
		}

		if in.Name != exportName {
			t.tree.Report(t.loc, ErrDuplicateInstance.With(
				slog.String("instance", in.Decl.QualifiedName()),
				slog.String("name", exportName),
				slog.String("exported_as", in.Name),
			))

			return
		}

		t.tree.log.Debug("instance already generated",
			slog.String("instance", in.Decl.QualifiedName()),
			slog.String("name", r.Name),
		)

		return
	}

	target, key, names, values, err := t.Select(r.Args)
	if err != nil {
		t.tree.Report(t.loc, err)
	} else if key == t.Key() && len(t.specs) > 0 {
		t.tree.log.Debug("no specialization matches, using primary",
			slog.String("template", t.QualifiedName()),
			slog.String("args", spelling),
		)
	}

	settings := ExportSettings{Exported: true, ExportName: exportName}

	var inst D

	if key != t.Key() && normalize(target.Name()) == normalize(spelling) {
		// an explicit specialization already declares the instance
		d := target.decl()
		d.settings.Exported, d.settings.ExportName = true, exportName
		inst = target
	} else {
		rwNames, rwValues := names, values
		if t.Kind() == KindClassTemplate {
			// the injected class name refers to the instance itself
			rwNames = append(slices.Clone(names), t.name)
			rwValues = append(slices.Clone(values), spelling)
		}

		rw := func(s string) string { return ReplaceNames(s, rwNames, rwValues) }

		n, ok := target.instantiate(t.Scope(), spelling, rw, settings).(D)
		if !ok {
			return
		}

		inst = n
	}

	if c, ok := any(inst).(*Class); ok {
		c.tmpl, c.key = t, key
	}

	t.instances = append(t.instances, &Instance[D]{
		Name: exportName,
		Args: trimAll(r.Args),
		Key:  key,
		Decl: inst,
	})

	t.tree.log.Debug("instantiated",
		slog.String("instance", inst.QualifiedName()),
		slog.String("from", string(key)),
	)
}

func (t *Template[D]) signature() string {
	sig := "template<" + strconv.Itoa(len(t.params)) + ">"
	if f, ok := any(t.primary).(*Function); ok {
		sig += f.signature()
	}

	return sig
}

func (c *Class) instantiate(owner *Scope, name string, rw func(string) string, s ExportSettings) Node {
	info := c.Info()
	info.Name = name
	info.Settings = s

	inst := NewClass(info, c.Struct)
	owner.tree.register(inst, owner.id)
	c.copyMembers(inst.Inner(), rw)

	return inst
}

// copyMembers adds rewritten copies of the members of c to dst. Member
// templates are not copied.
func (c *Class) copyMembers(dst *Scope, rw func(string) string) {
	for n := range c.Inner().Symbols() {
		switch n := n.(type) {
		case *Overload[*Constructor]:
			for _, m := range n.members {
				dst.Add(m.rewrite(rw))
			}
		case *Overload[*MemberFunction]:
			for _, m := range n.members {
				dst.Add(m.rewrite(rw))
			}
		case *Overload[*Function]:
			for _, m := range n.members {
				dst.Add(m.rewrite(rw))
			}
		case *MemberVariable:
			dst.Add(n.rewrite(rw))
		case *TypeAlias:
			dst.Add(n.rewrite(rw))
		case *Class:
			nested := NewClass(n.Info(), n.Struct)
			dst.Add(nested)
			n.copyMembers(nested.Inner(), rw)
		default:
			c.tree.log.Trace("member not copied into instance",
				slog.String("member", n.QualifiedName()),
				slog.String("kind", n.Kind().String()),
			)
		}
	}
}

func (f *Function) instantiate(owner *Scope, name string, rw func(string) string, s ExportSettings) Node {
	inst := f.rewrite(rw)
	inst.name = name
	inst.settings = s
	owner.tree.register(inst, owner.id)

	return inst
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}

	return out
}

package cxx

import (
	"strings"
)

// Param is one function parameter. Name may be empty.
type Param struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type"           yaml:"type"`
}

// Function is a free function declaration.
type Function struct {
	Decl

	ReturnType string
	Params     []Param
}

// NewFunction returns an unregistered free function.
func NewFunction(info Info, returnType string, params ...Param) *Function {
	return &Function{
		Decl:       makeDecl(info),
		ReturnType: returnType,
		Params:     append([]Param(nil), params...),
	}
}

func (*Function) Kind() Kind { return KindFunction }

// ParamTypes returns the parameter type spellings in order.
func (f *Function) ParamTypes() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Type
	}

	return out
}

// ResolvedReturnType returns the return type qualified from the owning
// scope.
func (f *Function) ResolvedReturnType() string {
	return resolveIn(f.Scope(), f.ReturnType)
}

// ResolvedParamTypes returns the parameter types qualified from the owning
// scope.
func (f *Function) ResolvedParamTypes() []string {
	out := f.ParamTypes()
	for i, t := range out {
		out[i] = resolveIn(f.Scope(), t)
	}

	return out
}

// PointerType returns the spelling of a pointer to f, used to select one
// member of an overload set.
func (f *Function) PointerType() string {
	return "(" + f.ResolvedReturnType() + ")(*)(" + strings.Join(f.ResolvedParamTypes(), ", ") + ")"
}

func (f *Function) signature() string {
	return signatureOf(f.Params, false)
}

func (f *Function) rewrite(rw func(string) string) *Function {
	c := *f
	c.Decl = makeDecl(f.Info())
	c.ReturnType = rw(f.ReturnType)
	c.Params = make([]Param, len(f.Params))

	for i, p := range f.Params {
		c.Params[i] = Param{Name: p.Name, Type: rw(p.Type)}
	}

	return &c
}

func signatureOf(params []Param, isConst bool) string {
	var b strings.Builder

	b.WriteByte('(')

	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(normalize(p.Type))
	}

	b.WriteByte(')')

	if isConst {
		b.WriteString("const")
	}

	return b.String()
}

// MemberFunction is a method of a class.
type MemberFunction struct {
	Function

	Const  bool
	Static bool
}

// NewMemberFunction returns an unregistered method.
func NewMemberFunction(
	info Info,
	returnType string,
	params []Param,
	isConst, isStatic bool,
) *MemberFunction {
	return &MemberFunction{
		Function: *NewFunction(info, returnType, params...),
		Const:    isConst,
		Static:   isStatic,
	}
}

func (*MemberFunction) Kind() Kind { return KindMemberFunction }

// ClassName returns the qualified name of the class declaring m.
func (m *MemberFunction) ClassName() string {
	if s := m.Scope(); s != nil {
		return s.String()
	}

	return ""
}

// PointerType returns the spelling of a pointer to m. Static methods are
// plain function pointers.
func (m *MemberFunction) PointerType() string {
	if m.Static {
		return m.Function.PointerType()
	}

	ptr := m.ResolvedReturnType() + "(" + m.ClassName() + "::*)(" +
		strings.Join(m.ResolvedParamTypes(), ", ") + ")"

	if m.Const {
		ptr += " const"
	}

	return ptr
}

func (m *MemberFunction) signature() string {
	sig := signatureOf(m.Params, m.Const)
	if m.Static {
		sig = "static" + sig
	}

	return sig
}

func (m *MemberFunction) rewrite(rw func(string) string) *MemberFunction {
	c := *m
	c.Function = *m.Function.rewrite(rw)

	return &c
}

// Constructor is a constructor of a class. It has no return type.
type Constructor struct {
	MemberFunction
}

// NewConstructor returns an unregistered constructor.
func NewConstructor(info Info, params ...Param) *Constructor {
	return &Constructor{MemberFunction: *NewMemberFunction(info, "", params, false, false)}
}

func (*Constructor) Kind() Kind { return KindConstructor }

// QualifiedName returns the qualified name of the constructed class.
func (c *Constructor) QualifiedName() string {
	if s := c.Scope(); s != nil && !s.IsRoot() {
		return s.String()
	}

	return c.name
}

func (c *Constructor) rewrite(rw func(string) string) *Constructor {
	return &Constructor{MemberFunction: *c.MemberFunction.rewrite(rw)}
}

// callable lists the declarations grouped into overload sets.
type callable interface {
	*Function | *MemberFunction | *Constructor | *FunctionTemplate

	Node
	signature() string
}

// Overload is the set of same-named callables declared in one scope.
type Overload[F callable] struct {
	Decl

	members []F
}

func newOverload[F callable](d *Decl) *Overload[F] {
	return &Overload[F]{Decl: makeDecl(d.Info())}
}

func (*Overload[F]) Kind() Kind { return KindOverload }

// QualifiedName returns the qualified name shared by the members.
func (o *Overload[F]) QualifiedName() string {
	if len(o.members) > 0 {
		return o.members[0].QualifiedName()
	}

	return o.Decl.QualifiedName()
}

// MemberKind returns the kind of the grouped declarations.
func (o *Overload[F]) MemberKind() Kind { return o.members[0].Kind() }

// Members returns the grouped declarations in declaration order.
func (o *Overload[F]) Members() []F { return append([]F(nil), o.members...) }

// Len returns the number of distinct declarations in the set.
func (o *Overload[F]) Len() int { return len(o.members) }

// add appends f unless it repeats an existing member, and returns the
// canonical member.
func (o *Overload[F]) add(f F) F {
	for _, m := range o.members {
		if (!f.Origin().IsZero() && m.Origin() == f.Origin()) ||
			m.signature() == f.signature() {
			m.decl().settings = m.decl().settings.absorb(f.Settings())

			return m
		}
	}

	o.tree.register(f, o.scope)
	o.members = append(o.members, f)

	return f
}

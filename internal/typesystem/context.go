package typesystem

// SymbolRef identifies a class or module owned by the symbol table.
type SymbolRef uint32

// NoSymbol is the zero SymbolRef; no real class ever uses it.
const NoSymbol SymbolRef = 0

// Context is the read-only view of the symbol table the type algebra needs.
// Implementations must be safe for concurrent readers once built; nothing in
// this package ever writes through a Context.
type Context interface {
	// ClassName returns the display name of ref.
	ClassName(ref SymbolRef) string
	// DerivesFrom reports whether sub equals super or has super among its
	// ancestors, including mixed-in modules.
	DerivesFrom(sub, super SymbolRef) bool
	// LookupMethod resolves name against owner and its ancestors.
	LookupMethod(owner SymbolRef, name string) (*Method, bool)
	// NilClass returns the class nil values dispatch on, if one is declared.
	NilClass() (SymbolRef, bool)
	IsStrictMode() bool
}

// Param is a declared formal parameter.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Repeated bool // splat: absorbs every remaining argument
}

// Method is a declared method signature.
type Method struct {
	Owner  SymbolRef
	Name   string
	Params []Param
	Result Type
}

// RequiredCount is the minimum number of arguments the method accepts.
func (m *Method) RequiredCount() int {
	n := 0
	for _, p := range m.Params {
		if !p.Optional && !p.Repeated {
			n++
		}
	}
	return n
}

// MaxCount is the maximum number of arguments, or -1 when a repeated
// parameter makes it unbounded.
func (m *Method) MaxCount() int {
	for _, p := range m.Params {
		if p.Repeated {
			return -1
		}
	}
	return len(m.Params)
}

// ParamAt returns the formal parameter that receives the i-th argument.
func (m *Method) ParamAt(i int) (Param, bool) {
	if i < 0 {
		return Param{}, false
	}
	if i < len(m.Params) && !m.Params[i].Repeated {
		return m.Params[i], true
	}
	for _, p := range m.Params {
		if p.Repeated {
			return p, true
		}
	}
	return Param{}, false
}

func className(ctx Context, ref SymbolRef) string {
	if ctx == nil {
		return "Class(#" + itoa(int64(ref)) + ")"
	}
	return ctx.ClassName(ref)
}

package typesystem

import (
	"math"
	"strconv"
	"strings"
)

// LiteralKind is the payload discriminant of a Literal.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralSymbol
	LiteralBool
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInteger:
		return "Integer"
	case LiteralFloat:
		return "Float"
	case LiteralSymbol:
		return "Symbol"
	case LiteralBool:
		return "Bool"
	}
	return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
}

// Symbol is a symbolic-name payload, distinct from Go strings so that
// NewLiteral can tell the two apart.
type Symbol string

// Literal is a singleton refinement of its underlying class.
type Literal struct {
	underlying Type
	kind       LiteralKind
	intVal     int64
	floatVal   float64
	name       string
	boolVal    bool
}

func checkUnderlying(underlying Type, what string) {
	mustBeType(underlying, what+" underlying type")
	if underlying.Tag().IsProxy() {
		invariantViolation("%s wraps proxy type %s", what, underlying.TypeName())
	}
}

func NewIntegerLiteral(underlying Type, v int64) *Literal {
	checkUnderlying(underlying, "Literal")
	return &Literal{underlying: underlying, kind: LiteralInteger, intVal: v}
}

func NewFloatLiteral(underlying Type, v float64) *Literal {
	checkUnderlying(underlying, "Literal")
	return &Literal{underlying: underlying, kind: LiteralFloat, floatVal: v}
}

func NewSymbolLiteral(underlying Type, name string) *Literal {
	checkUnderlying(underlying, "Literal")
	return &Literal{underlying: underlying, kind: LiteralSymbol, name: name}
}

func NewBoolLiteral(underlying Type, v bool) *Literal {
	checkUnderlying(underlying, "Literal")
	return &Literal{underlying: underlying, kind: LiteralBool, boolVal: v}
}

// NewLiteral builds a Literal from a Go payload. Only integers, floats,
// Symbol and bool are supported; anything else is a checker defect.
func NewLiteral(underlying Type, payload interface{}) *Literal {
	switch v := payload.(type) {
	case int:
		return NewIntegerLiteral(underlying, int64(v))
	case int32:
		return NewIntegerLiteral(underlying, int64(v))
	case int64:
		return NewIntegerLiteral(underlying, v)
	case float32:
		return NewFloatLiteral(underlying, float64(v))
	case float64:
		return NewFloatLiteral(underlying, v)
	case Symbol:
		return NewSymbolLiteral(underlying, string(v))
	case bool:
		return NewBoolLiteral(underlying, v)
	}
	invariantViolation("unsupported literal payload %T", payload)
	return nil
}

func (t *Literal) Underlying() Type  { return t.underlying }
func (t *Literal) Kind() LiteralKind { return t.kind }
func (t *Literal) Tag() Tag          { return TagLiteral }
func (t *Literal) TypeName() string  { return "Literal" }
func (t *Literal) IsDynamic() bool   { return false }
func (t *Literal) String() string    { return t.payloadString() }

func (t *Literal) IntValue() int64     { return t.intVal }
func (t *Literal) FloatValue() float64 { return t.floatVal }
func (t *Literal) SymbolName() string  { return t.name }
func (t *Literal) BoolValue() bool     { return t.boolVal }

// SamePayload reports whether both literals carry the same discriminant and
// value. Floats compare by bit pattern so that every literal equals itself.
func (t *Literal) SamePayload(o *Literal) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case LiteralInteger:
		return t.intVal == o.intVal
	case LiteralFloat:
		return math.Float64bits(t.floatVal) == math.Float64bits(o.floatVal)
	case LiteralSymbol:
		return t.name == o.name
	default:
		return t.boolVal == o.boolVal
	}
}

func (t *Literal) payloadString() string {
	switch t.kind {
	case LiteralInteger:
		return strconv.FormatInt(t.intVal, 10)
	case LiteralFloat:
		s := strconv.FormatFloat(t.floatVal, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case LiteralSymbol:
		return ":" + t.name
	default:
		return strconv.FormatBool(t.boolVal)
	}
}

func (t *Literal) Show(ctx Context, tabs int) string {
	return t.underlying.Show(ctx, tabs) + "(" + t.payloadString() + ")"
}

// key quotes symbol names, which may hold any character, so that keys of
// distinct types never collide.
func (t *Literal) key() string {
	payload := t.payloadString()
	if t.kind == LiteralSymbol {
		payload = strconv.Quote(t.name)
	}
	return "L" + strconv.Itoa(int(t.kind)) + ":" + payload + "@" + t.underlying.key()
}

// HashType is a record with literal keys, not a dynamic map.
type HashType struct {
	underlying Type
	keys       []*Literal
	values     []Type
}

func NewHashType(underlying Type, keys []*Literal, values []Type) *HashType {
	checkUnderlying(underlying, "HashType")
	if len(keys) != len(values) {
		invariantViolation("HashType with %d keys and %d values", len(keys), len(values))
	}
	for i := range keys {
		if keys[i] == nil {
			invariantViolation("HashType key %d is nil", i)
		}
		mustBeType(values[i], "HashType value")
	}
	return &HashType{
		underlying: underlying,
		keys:       append([]*Literal(nil), keys...),
		values:     append([]Type(nil), values...),
	}
}

func (t *HashType) Underlying() Type { return t.underlying }
func (t *HashType) Keys() []*Literal { return append([]*Literal(nil), t.keys...) }
func (t *HashType) Values() []Type   { return append([]Type(nil), t.values...) }
func (t *HashType) Len() int         { return len(t.keys) }
func (t *HashType) Tag() Tag         { return TagHash }
func (t *HashType) TypeName() string { return "HashType" }
func (t *HashType) IsDynamic() bool  { return false }
func (t *HashType) String() string   { return Describe(nil, t) }

func (t *HashType) Show(ctx Context, tabs int) string {
	var sb strings.Builder
	sb.WriteString("HashType {\n")
	for i, k := range t.keys {
		sb.WriteString(indent(tabs + 1))
		sb.WriteString(k.payloadString())
		sb.WriteString(" => ")
		sb.WriteString(t.values[i].Show(ctx, tabs+1))
		sb.WriteString("\n")
	}
	sb.WriteString(indent(tabs))
	sb.WriteString("}")
	return sb.String()
}

func (t *HashType) key() string {
	parts := make([]string, len(t.keys))
	for i, k := range t.keys {
		parts[i] = k.key() + "=" + t.values[i].key()
	}
	return "H{" + strings.Join(parts, ",") + "}@" + t.underlying.key()
}

// ArrayType is a fixed-length tuple, not a homogeneous list.
type ArrayType struct {
	underlying Type
	elems      []Type
}

func NewArrayType(underlying Type, elems []Type) *ArrayType {
	checkUnderlying(underlying, "ArrayType")
	for _, e := range elems {
		mustBeType(e, "ArrayType element")
	}
	return &ArrayType{underlying: underlying, elems: append([]Type(nil), elems...)}
}

func (t *ArrayType) Underlying() Type { return t.underlying }
func (t *ArrayType) Elems() []Type    { return append([]Type(nil), t.elems...) }
func (t *ArrayType) Len() int         { return len(t.elems) }
func (t *ArrayType) Tag() Tag         { return TagArray }
func (t *ArrayType) TypeName() string { return "ArrayType" }
func (t *ArrayType) IsDynamic() bool  { return false }
func (t *ArrayType) String() string   { return Describe(nil, t) }

func (t *ArrayType) Show(ctx Context, tabs int) string {
	var sb strings.Builder
	sb.WriteString("ArrayType {\n")
	for i, e := range t.elems {
		sb.WriteString(indent(tabs + 1))
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(" = ")
		sb.WriteString(e.Show(ctx, tabs+1))
		sb.WriteString("\n")
	}
	sb.WriteString(indent(tabs))
	sb.WriteString("}")
	return sb.String()
}

func (t *ArrayType) key() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		parts[i] = e.key()
	}
	return "A[" + strings.Join(parts, ",") + "]@" + t.underlying.key()
}

package typesystem

import (
	"strconv"
	"strings"
)

// Tag discriminates the closed set of type variants.
type Tag int

const (
	TagClass Tag = iota
	TagOr
	TagAnd
	TagLiteral
	TagHash
	TagArray
	TagDynamic
	TagTop
	TagBottom
	TagNil
)

// IsProxy reports whether values with this tag refine an underlying type.
func (t Tag) IsProxy() bool {
	return t == TagLiteral || t == TagHash || t == TagArray
}

func (t Tag) IsGround() bool { return !t.IsProxy() }

// Type is an immutable type descriptor. Values are shared freely between
// AST nodes, caches and lattice results; no method mutates its receiver.
type Type interface {
	Tag() Tag
	// TypeName is a short discriminant independent of instance data.
	TypeName() string
	// Show renders a multi-line debug form indented by tabs levels.
	Show(ctx Context, tabs int) string
	String() string
	IsDynamic() bool

	// key is a structural identity used for deduplication and memoization.
	key() string
}

// ProxyType refines a ground type and dispatches through it by default.
type ProxyType interface {
	Type
	Underlying() Type
}

// ClassType is a nominal type naming a class or module of the symbol table.
type ClassType struct {
	symbol SymbolRef
}

func NewClassType(symbol SymbolRef) *ClassType {
	if symbol == NoSymbol {
		invariantViolation("class type without symbol")
	}
	return &ClassType{symbol: symbol}
}

func (t *ClassType) Symbol() SymbolRef { return t.symbol }
func (t *ClassType) Tag() Tag          { return TagClass }
func (t *ClassType) TypeName() string  { return "ClassType" }
func (t *ClassType) IsDynamic() bool   { return false }
func (t *ClassType) String() string    { return Describe(nil, t) }
func (t *ClassType) key() string       { return "C" + itoa(int64(t.symbol)) }

func (t *ClassType) Show(ctx Context, tabs int) string {
	return className(ctx, t.symbol)
}

// OrType is a union: its values belong to left or to right.
type OrType struct {
	left, right Type
}

func NewOr(left, right Type) *OrType {
	mustBeType(left, "union left operand")
	mustBeType(right, "union right operand")
	return &OrType{left: left, right: right}
}

func (t *OrType) Left() Type       { return t.left }
func (t *OrType) Right() Type      { return t.right }
func (t *OrType) Tag() Tag         { return TagOr }
func (t *OrType) TypeName() string { return "OrType" }
func (t *OrType) IsDynamic() bool  { return false }
func (t *OrType) String() string   { return Describe(nil, t) }
func (t *OrType) key() string      { return "Or(" + t.left.key() + "," + t.right.key() + ")" }

func (t *OrType) Show(ctx Context, tabs int) string {
	return showPair(ctx, tabs, "OrType", t.left, t.right)
}

// AndType is an intersection: its values belong to both left and right.
type AndType struct {
	left, right Type
}

func NewAnd(left, right Type) *AndType {
	mustBeType(left, "intersection left operand")
	mustBeType(right, "intersection right operand")
	return &AndType{left: left, right: right}
}

func (t *AndType) Left() Type       { return t.left }
func (t *AndType) Right() Type      { return t.right }
func (t *AndType) Tag() Tag         { return TagAnd }
func (t *AndType) TypeName() string { return "AndType" }
func (t *AndType) IsDynamic() bool  { return false }
func (t *AndType) String() string   { return Describe(nil, t) }
func (t *AndType) key() string      { return "And(" + t.left.key() + "," + t.right.key() + ")" }

func (t *AndType) Show(ctx Context, tabs int) string {
	return showPair(ctx, tabs, "AndType", t.left, t.right)
}

func showPair(ctx Context, tabs int, name string, left, right Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" {\n")
	sb.WriteString(indent(tabs + 1))
	sb.WriteString("left = ")
	sb.WriteString(left.Show(ctx, tabs+1))
	sb.WriteString("\n")
	sb.WriteString(indent(tabs + 1))
	sb.WriteString("right = ")
	sb.WriteString(right.Show(ctx, tabs+1))
	sb.WriteString("\n")
	sb.WriteString(indent(tabs))
	sb.WriteString("}")
	return sb.String()
}

// DynamicType is the gradual escape hatch: both a subtype and a supertype of
// every other type.
type DynamicType struct{}

func (t *DynamicType) Tag() Tag                          { return TagDynamic }
func (t *DynamicType) TypeName() string                  { return "Dynamic" }
func (t *DynamicType) IsDynamic() bool                   { return true }
func (t *DynamicType) String() string                    { return "dynamic" }
func (t *DynamicType) Show(ctx Context, tabs int) string { return "dynamic" }
func (t *DynamicType) key() string                       { return "dynamic" }

type TopType struct{}

func (t *TopType) Tag() Tag                          { return TagTop }
func (t *TopType) TypeName() string                  { return "Top" }
func (t *TopType) IsDynamic() bool                   { return false }
func (t *TopType) String() string                    { return "top" }
func (t *TopType) Show(ctx Context, tabs int) string { return "top" }
func (t *TopType) key() string                       { return "top" }

// BottomType is uninhabited.
type BottomType struct{}

func (t *BottomType) Tag() Tag                          { return TagBottom }
func (t *BottomType) TypeName() string                  { return "Bottom" }
func (t *BottomType) IsDynamic() bool                   { return false }
func (t *BottomType) String() string                    { return "bottom" }
func (t *BottomType) Show(ctx Context, tabs int) string { return "bottom" }
func (t *BottomType) key() string                       { return "bottom" }

type NilType struct{}

func (t *NilType) Tag() Tag                          { return TagNil }
func (t *NilType) TypeName() string                  { return "Nil" }
func (t *NilType) IsDynamic() bool                   { return false }
func (t *NilType) String() string                    { return "nil" }
func (t *NilType) Show(ctx Context, tabs int) string { return "nil" }
func (t *NilType) key() string                       { return "nil" }

var (
	dynamicType = &DynamicType{}
	topType     = &TopType{}
	bottomType  = &BottomType{}
	nilType     = &NilType{}
)

// Top is the supertype of every representable type.
func Top() Type { return topType }

// Bottom is the empty type, a subtype of everything.
func Bottom() Type { return bottomType }

// Nil is the type of the nil value.
func Nil() Type { return nilType }

// Dynamic is the type of values the checker knows nothing about.
func Dynamic() Type { return dynamicType }

// Describe renders t on one line using the names ctx knows. The output uses
// the same syntax the type-expression parser accepts.
func Describe(ctx Context, t Type) string {
	return describe(ctx, t, precUnion)
}

const (
	precUnion = iota
	precIntersection
	precAtom
)

func describe(ctx Context, t Type, prec int) string {
	switch t := t.(type) {
	case *ClassType:
		return className(ctx, t.symbol)
	case *OrType:
		s := describe(ctx, t.left, precUnion) + " | " + describe(ctx, t.right, precUnion)
		if prec > precUnion {
			return "(" + s + ")"
		}
		return s
	case *AndType:
		s := describe(ctx, t.left, precIntersection) + " & " + describe(ctx, t.right, precIntersection)
		if prec > precIntersection {
			return "(" + s + ")"
		}
		return s
	case *Literal:
		return t.payloadString()
	case *HashType:
		parts := make([]string, len(t.keys))
		for i, k := range t.keys {
			v := describe(ctx, t.values[i], precUnion)
			if k.kind == LiteralSymbol && isKeyName(k.name) {
				parts[i] = k.name + ": " + v
			} else {
				parts[i] = k.payloadString() + " => " + v
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ArrayType:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = describe(ctx, e, precUnion)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "<nil>"
	default:
		return t.String()
	}
}

// isKeyName reports whether a symbol key can use the "name: T" shorthand.
func isKeyName(name string) bool {
	if name == "" || !(name[0] == '_' || name[0] >= 'a' && name[0] <= 'z') {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func indent(tabs int) string {
	return strings.Repeat("  ", tabs)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

package symbols

import (
	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/typesystem"
)

// ClassType returns the class type named name.
func (st *Table) ClassType(name string) (*typesystem.ClassType, bool) {
	ref, ok := st.byName[name]
	if !ok {
		return nil, false
	}
	return typesystem.NewClassType(ref), true
}

// MustClassType is ClassType for names the caller knows exist, such as the
// built-ins. It panics otherwise.
func (st *Table) MustClassType(name string) *typesystem.ClassType {
	t, ok := st.ClassType(name)
	if !ok {
		panic("symbols: no class named " + name)
	}
	return t
}

func (st *Table) IntegerLiteral(v int64) *typesystem.Literal {
	return typesystem.NewIntegerLiteral(st.MustClassType(config.IntegerClassName), v)
}

func (st *Table) FloatLiteral(v float64) *typesystem.Literal {
	return typesystem.NewFloatLiteral(st.MustClassType(config.FloatClassName), v)
}

func (st *Table) SymbolLiteral(name string) *typesystem.Literal {
	return typesystem.NewSymbolLiteral(st.MustClassType(config.SymbolClassName), name)
}

// BoolLiteral's underlying class is TrueClass or FalseClass depending on v.
func (st *Table) BoolLiteral(v bool) *typesystem.Literal {
	name := config.FalseClassName
	if v {
		name = config.TrueClassName
	}
	return typesystem.NewBoolLiteral(st.MustClassType(name), v)
}

// Hash builds a record type over Hash.
func (st *Table) Hash(keys []*typesystem.Literal, values []typesystem.Type) *typesystem.HashType {
	return typesystem.NewHashType(st.MustClassType(config.HashClassName), keys, values)
}

// Array builds a tuple type over Array.
func (st *Table) Array(elems []typesystem.Type) *typesystem.ArrayType {
	return typesystem.NewArrayType(st.MustClassType(config.ArrayClassName), elems)
}
